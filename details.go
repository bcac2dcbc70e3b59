package research

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/Vanshikanainn/Company-Research-Agent/internal/httpx"
)

//go:embed schema/company_details.json
var companyDetailsSchema []byte

// CompanyDetails is the structured research document the backend formats
// from a finished answer. Chart data and options are passed through raw for
// the rendering layer.
type CompanyDetails struct {
	CompanyName      string           `json:"company_name"`
	Overview         Overview         `json:"overview"`
	WorkCulture      WorkCulture      `json:"work_culture"`
	Compensation     Compensation     `json:"compensation"`
	CareerGrowth     CareerGrowth     `json:"career_growth"`
	ReviewsRatings   ReviewsRatings   `json:"reviews_ratings"`
	InterviewProcess InterviewProcess `json:"interview_process"`
	ProsCons         ProsCons         `json:"pros_cons"`
	Mermaid          MermaidSection   `json:"mermaid"`
	ChartJS          ChartJSSection   `json:"chartjs"`
	Sources          []string         `json:"sources"`
	AdditionalInfo   string           `json:"additional_info"`
}

type Overview struct {
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

type WorkCulture struct {
	WorkLifeBalance     string   `json:"work_life_balance"`
	CompanyValues       []string `json:"company_values"`
	EmployeeExperiences string   `json:"employee_experiences"`
}

type Compensation struct {
	SalaryRange string   `json:"salary_range"`
	Benefits    []string `json:"benefits"`
	Perks       []string `json:"perks"`
}

type CareerGrowth struct {
	AdvancementOpportunities string `json:"advancement_opportunities"`
	LearningDevelopment      string `json:"learning_development"`
	SkillDevelopment         string `json:"skill_development"`
}

type ReviewsRatings struct {
	OverallRating     string   `json:"overall_rating"`
	KeyFeedback       []string `json:"key_feedback"`
	SatisfactionScore string   `json:"satisfaction_score"`
}

type InterviewProcess struct {
	Stages          []string `json:"stages"`
	Difficulty      string   `json:"difficulty"`
	CommonQuestions []string `json:"common_questions"`
}

type ProsCons struct {
	Pros []string `json:"pros"`
	Cons []string `json:"cons"`
}

type MermaidSection struct {
	Diagrams []MermaidDiagram `json:"diagrams"`
}

type MermaidDiagram struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	Code  string `json:"code"`
}

type ChartJSSection struct {
	Charts []Chart `json:"charts"`
}

type Chart struct {
	Title   string          `json:"title"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Options json.RawMessage `json:"options"`
}

type DetailsRequest struct {
	// Content is the answer text to structure, typically
	// Transcript.PlainText() of a finished turn.
	Content string

	Headers    map[string]string
	MaxRetries *int
}

type DetailsResponse struct {
	Details CompanyDetails
	RawJSON json.RawMessage

	// ValidationError reports a schema mismatch in the backend's document.
	// The decoded Details are still returned; rendering degrades rather
	// than failing.
	ValidationError error
}

// ExtractDetails structures finished answer text into a CompanyDetails
// document via the default client.
func ExtractDetails(ctx context.Context, req DetailsRequest) (*DetailsResponse, error) {
	return defaultClient.Load().ExtractDetails(ctx, req)
}

func (c *Client) ExtractDetails(ctx context.Context, req DetailsRequest) (*DetailsResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, &Error{Op: "details", Code: "invalid_request", Message: "content is required"}
	}

	body, err := json.Marshal(struct {
		Content string `json:"content"`
	}{Content: req.Content})
	if err != nil {
		return nil, &Error{Op: "details", Code: "marshal_error", Message: err.Error(), Cause: err}
	}

	u, err := c.endpoint("/get-details-as-json")
	if err != nil {
		return nil, &Error{Op: "details", Code: "url_error", Message: err.Error(), Cause: err}
	}

	h := c.headers()
	for k, v := range req.Headers {
		h.Set(k, v)
	}

	resp, err := httpx.DoJSON(ctx, c.cfg.HTTPClient, http.MethodPost, u, body, h, c.retryPolicy(req.MaxRetries))
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return nil, &Error{Op: "details", Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		code, retryable := classifyNetworkErr(err)
		return nil, &Error{Op: "details", Code: code, Message: err.Error(), Retryable: retryable, Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Op:        "details",
			Code:      "http_error",
			Status:    resp.StatusCode,
			Message:   strings.TrimSpace(string(raw)),
			Retryable: httpx.RetryableStatus(resp.StatusCode),
		}
	}

	// The backend reports formatter failures as a 200 with an error field.
	var backendErr struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &backendErr) == nil && backendErr.Error != "" {
		return nil, &Error{Op: "details", Code: "invalid_response", Message: backendErr.Error}
	}

	var details CompanyDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, &Error{Op: "details", Code: "decode_error", Message: err.Error(), Cause: err}
	}

	return &DetailsResponse{
		Details:         details,
		RawJSON:         raw,
		ValidationError: validateJSONAgainstSchema(companyDetailsSchema, raw),
	}, nil
}
