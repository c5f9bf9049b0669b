package model

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatTurn is one message of an assistant conversation.
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiRequest is the generateContent request body.
type GeminiRequest struct {
	Contents []GeminiContent `json:"contents"`
}

// GeminiResponse is the subset of the generateContent response that is read.
type GeminiResponse struct {
	Candidates []struct {
		Content GeminiContent `json:"content"`
	} `json:"candidates"`
}

// NewGeminiRequest converts a history into a request body.
func NewGeminiRequest(turns []ChatTurn) GeminiRequest {
	req := GeminiRequest{Contents: make([]GeminiContent, 0, len(turns))}
	for _, t := range turns {
		req.Contents = append(req.Contents, GeminiContent{
			Role:  t.Role,
			Parts: []GeminiPart{{Text: t.Text}},
		})
	}
	return req
}

// Text returns the first candidate's first part, or "" when absent.
func (r GeminiResponse) Text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

// CountryInfo is the metadata shown next to a location name.
type CountryInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	FlagURL string `json:"flag_url"`
}

// RestCountry is one element of the restcountries /alpha response.
type RestCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	Flags struct {
		PNG string `json:"png"`
	} `json:"flags"`
}
