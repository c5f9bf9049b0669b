package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/fakhrymubarak/skycast/internal/repository"
	"go.uber.org/zap"
)

// CityLookup fetches current conditions for a named place without changing the current location.
type CityLookup interface {
	LookupByCity(ctx context.Context, name string) (*Resolution, error)
}

// Reply is the outcome of one assistant exchange.
type Reply struct {
	Text       string           `json:"text"`
	History    []model.ChatTurn `json:"history"`
	Stopped    bool             `json:"stopped"`
	Retried    bool             `json:"retried"`
	Context    string           `json:"context,omitempty"`
	GroundedOn string           `json:"grounded_on,omitempty"`
}

// AssistantService answers weather questions with a generative model, grounding the
// prompt on real weather data whenever some is available.
type AssistantService struct {
	lookup CityLookup
	model  repository.ModelRepository
	state  *AppState
	logger *zap.SugaredLogger
}

func NewAssistantService(lookup CityLookup, modelRepo repository.ModelRepository, state *AppState) *AssistantService {
	return &AssistantService{
		lookup: lookup,
		model:  modelRepo,
		state:  state,
		logger: config.GetLogger(),
	}
}

// Respond runs one exchange. The returned history always contains the new user turn;
// a model turn is added only when a reply was generated. Cancelling ctx during the
// primary call yields a stopped reply and no error.
func (s *AssistantService) Respond(ctx context.Context, userText string, history []model.ChatTurn) (Reply, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return Reply{History: history}, fmt.Errorf("%w: empty message", ErrInvalidInput)
	}

	weatherContext, groundedOn := s.buildContext(ctx, userText)

	turns := make([]model.ChatTurn, 0, len(history)+3)
	if len(history) == 0 {
		turns = append(turns, model.ChatTurn{Role: model.RoleModel, Text: IntroTurn})
	}
	turns = append(turns, history...)
	turns = append(turns, model.ChatTurn{Role: model.RoleUser, Text: EnhancedPrompt(userText, weatherContext)})

	reply := Reply{Context: weatherContext, GroundedOn: groundedOn}

	text, err := s.model.Generate(ctx, turns)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			s.logger.Infow("Response generation stopped", "error", err)
			reply.Text = StoppedText
			reply.Stopped = true
			reply.History = turns
			return reply, nil
		}

		s.logger.Warnw("Model call failed, retrying with simplified prompt", "error", err)
		reply.Retried = true
		simple := []model.ChatTurn{{Role: model.RoleUser, Text: SimplifiedPrompt(userText, weatherContext)}}
		text, err = s.model.Generate(ctx, simple)
		if err != nil {
			s.logger.Errorw("Simplified model call failed", "error", err)
			reply.History = turns
			return reply, fmt.Errorf("%w: %w", ErrModelCall, err)
		}
	}

	reply.Text = StripDisclaimers(strings.TrimSpace(text))
	reply.History = append(turns, model.ChatTurn{Role: model.RoleModel, Text: reply.Text})
	return reply, nil
}

// buildContext returns the weather summary for the prompt and the place it describes.
// A place named in the message takes priority over the ambient snapshot. Lookup
// failures are logged and ignored.
func (s *AssistantService) buildContext(ctx context.Context, userText string) (string, string) {
	loc, current := s.state.Snapshot()

	if named := ExtractLocation(userText); named != "" {
		if loc == nil || loc.Name == "" || current == nil || !strings.Contains(strings.ToLower(named), strings.ToLower(loc.Name)) {
			res, err := s.lookup.LookupByCity(ctx, named)
			if err == nil {
				return WeatherContext(res.Location.Name, res.Location.Country, res.Current), res.Location.Name
			}
			s.logger.Warnw("Failed to fetch weather for named location", "location", named, "error", err)
		}
	}

	if loc != nil && loc.Name != "" && current != nil {
		return WeatherContext(loc.Name, loc.Country, *current), loc.Name
	}
	return "", ""
}
