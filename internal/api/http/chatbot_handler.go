package apihttp

import (
	"encoding/json"
	"net/http"

	"pointage-cloud/internal/chatbot"
	"pointage-cloud/internal/observability/metrics"
)

// ChatbotHandler serves the question interpreter.
type ChatbotHandler struct {
	interpreter *chatbot.Interpreter
}

// NewChatbotHandler constructs a ChatbotHandler.
func NewChatbotHandler(interpreter *chatbot.Interpreter) *ChatbotHandler {
	return &ChatbotHandler{interpreter: interpreter}
}

type chatbotRequest struct {
	Question string `json:"question"`
}

type chatbotResponse struct {
	Answer string `json:"answer"`
}

// ServeHTTP handles POST /api/v1/chatbot (ask) and GET (suggestions).
func (h *ChatbotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.interpreter == nil {
		http.Error(w, "server not ready", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Suggestions []string `json:"suggestions"`
		}{Suggestions: h.interpreter.SuggestedQuestions()})
	case http.MethodPost:
		var request chatbotRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		metrics.CountQuestion(h.interpreter.IntentOf(request.Question))
		answer := h.interpreter.Answer(r.Context(), request.Question)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatbotResponse{Answer: answer})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
