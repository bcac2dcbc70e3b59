// Package stub is an in-process research backend for development and tests.
// It serves the same three routes and wire format as the real service, with
// lorem ipsum answers, so clients can be exercised without API keys or
// network access.
package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	lorem "github.com/bozaro/golorem"
	"github.com/google/uuid"
)

type Options struct {
	// ContentWords is the number of words per content frame. Default 3.
	ContentWords int

	// Reasoning emits a <think>-tagged reasoning frame before the answer.
	Reasoning bool

	// OutputSpan embeds an <output> span inside the reasoning narration.
	// Implies Reasoning.
	OutputSpan bool

	// Tools emits an executed_tools frame.
	Tools bool

	// DuplicateFrames resends each tool frame with the same id, simulating
	// transport redelivery.
	DuplicateFrames bool
}

type Server struct {
	opts Options
	gen  *lorem.Lorem
}

func NewServer(opts Options) *Server {
	if opts.ContentWords <= 0 {
		opts.ContentWords = 3
	}
	if opts.OutputSpan {
		opts.Reasoning = true
	}
	return &Server{opts: opts, gen: lorem.New()}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	switch r.URL.Path {
	case "/ask":
		s.ask(w, r)
	case "/get-speech":
		s.speech(w, r)
	case "/get-details-as-json":
		s.details(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question      string     `json:"question"`
		PreviousConvo [][]string `json:"previous_convo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	flusher, _ := w.(http.Flusher)

	emit := func(payload string) {
		fmt.Fprintf(w, "data: %s\n\n", payload)
		if flusher != nil {
			flusher.Flush()
		}
	}
	emitDelta := func(id string, delta any) {
		b, _ := json.Marshal(map[string]any{
			"id":      id,
			"choices": []any{map[string]any{"delta": delta}},
		})
		emit(string(b))
	}

	if s.opts.Reasoning {
		narration := "I will look into " + req.Question + ". " + s.gen.Sentence(5, 10)
		if s.opts.OutputSpan {
			narration += " <output>" + s.gen.Sentence(4, 8) + "</output> " + s.gen.Sentence(4, 8)
		}
		emitDelta(uuid.NewString(), map[string]any{
			"reasoning": "<think>" + narration + "</think>",
		})
	}

	if s.opts.Tools {
		id := uuid.NewString()
		delta := map[string]any{
			"executed_tools": []any{map[string]any{
				"index":     0,
				"type":      "web_search",
				"arguments": fmt.Sprintf(`{"query":%q}`, req.Question),
				"output":    s.gen.Sentence(5, 10),
			}},
		}
		emitDelta(id, delta)
		if s.opts.DuplicateFrames {
			emitDelta(id, delta)
		}
	}

	words := strings.Fields(s.gen.Paragraph(2, 4))
	for i := 0; i < len(words); i += s.opts.ContentWords {
		end := i + s.opts.ContentWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if i > 0 {
			chunk = " " + chunk
		}
		emitDelta(uuid.NewString(), map[string]any{"content": chunk})
	}

	emit("[DONE]")
}

func (s *Server) speech(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	_, header, err := r.FormFile("file")
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		json.NewEncoder(w).Encode(map[string]string{"error": "file is required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".mp3") {
		json.NewEncoder(w).Encode(map[string]string{"error": "Only MP3 files are supported"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"text": s.gen.Sentence(5, 12)})
}

func (s *Server) details(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	doc := map[string]any{
		"company_name": capitalize(s.gen.Word(4, 10)),
		"overview": map[string]any{
			"industry":    s.gen.Word(4, 10),
			"size":        "1000-5000 employees",
			"location":    s.gen.Word(4, 10),
			"description": s.gen.Sentence(8, 15),
		},
		"work_culture": map[string]any{
			"work_life_balance":    s.gen.Sentence(4, 8),
			"company_values":       []string{s.gen.Word(4, 8), s.gen.Word(4, 8)},
			"employee_experiences": s.gen.Sentence(6, 12),
		},
		"compensation": map[string]any{
			"salary_range": "$90k-$160k",
			"benefits":     []string{s.gen.Word(4, 8)},
			"perks":        []string{s.gen.Word(4, 8)},
		},
		"career_growth": map[string]any{
			"advancement_opportunities": s.gen.Sentence(4, 8),
			"learning_development":      s.gen.Sentence(4, 8),
			"skill_development":         s.gen.Sentence(4, 8),
		},
		"reviews_ratings": map[string]any{
			"overall_rating":     "4.1/5",
			"key_feedback":       []string{s.gen.Sentence(4, 8)},
			"satisfaction_score": "82%",
		},
		"interview_process": map[string]any{
			"stages":           []string{"phone screen", "technical", "onsite"},
			"difficulty":       "moderate",
			"common_questions": []string{s.gen.Sentence(4, 8) + "?"},
		},
		"pros_cons": map[string]any{
			"pros": []string{s.gen.Sentence(3, 6)},
			"cons": []string{s.gen.Sentence(3, 6)},
		},
		"mermaid": map[string]any{
			"diagrams": []any{map[string]any{
				"title": "Interview process",
				"type":  "flowchart",
				"code":  "flowchart TD; A[Apply] --> B[Screen] --> C[Offer]",
			}},
		},
		"chartjs": map[string]any{
			"charts": []any{map[string]any{
				"title": "Ratings",
				"type":  "bar",
				"data": map[string]any{
					"labels":   []string{"culture", "pay", "growth"},
					"datasets": []any{map[string]any{"label": "rating", "data": []float64{4.2, 3.8, 4.0}}},
				},
				"options": map[string]any{"responsive": true},
			}},
		},
		"sources":         []string{"https://glassdoor.example/reviews"},
		"additional_info": s.gen.Sentence(6, 12),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
