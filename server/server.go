// Package server is the HTTP boundary: a login gate, the chat endpoint
// and a read-only user listing. It consumes the chatbot handlers and
// never sees extraction or resolution failures as errors, only as
// response text.
package server

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/wpbrigade/admin-chatbot/chatbot"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the admin chat UI and its JSON API.
type Server struct {
	bot        *chatbot.Bot
	adminEmail string
	logger     *zap.Logger
	router     chi.Router
	templates  *template.Template
}

// New builds the router. adminEmail is always allowed to log in; any
// email present in the directory is too.
func New(bot *chatbot.Bot, adminEmail string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		bot:        bot,
		adminEmail: strings.ToLower(adminEmail),
		logger:     logger,
		templates:  template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	r := chi.NewRouter()
	r.Get("/", s.loginPage)
	r.Post("/", s.login)
	r.Post("/chat", s.chat)
	r.Get("/users", s.listUsers)
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "login.html", map[string]string{"AdminEmail": s.adminEmail})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	if email == "" {
		http.Error(w, "Please provide an email.", http.StatusBadRequest)
		return
	}

	users, err := s.bot.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("failed to load users for login", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	allowed := email == s.adminEmail
	for _, u := range users {
		if u.Email == email {
			allowed = true
			break
		}
	}
	if !allowed {
		http.Error(w, "Unauthorized access. Email not recognized in the system.", http.StatusUnauthorized)
		return
	}

	s.render(w, "chat.html", nil)
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Command string `json:"command"`
	}
	// A missing or malformed body is treated as an empty command, which
	// gets the "please enter a command" response.
	_ = json.NewDecoder(r.Body).Decode(&payload)

	response, err := s.bot.Respond(r.Context(), payload.Command)
	if err != nil {
		s.logger.Error("command failed against the store", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]string{"response": response})
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.bot.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("failed to load users", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, users)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("failed to render template", zap.String("template", name), zap.Error(err))
	}
}
