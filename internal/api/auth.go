package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

func (s *Server) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	errResp := fromDomainError(err)
	if errResp.StatusCode == http.StatusInternalServerError {
		s.log.Printf("internal error: %v", err)
	}
	s.writeJson(w, errResp.StatusCode, errResp)
}

// decodeBody parses the JSON request body into v. A malformed body is
// reported as a 400 and the handler should return immediately.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return false
	}
	return true
}

// requestToken finds the caller's session token: the Authorization
// header wins, falling back to the token carried in the body or query
// string.
func requestToken(r *http.Request, bodyToken string) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if bodyToken != "" {
		return bodyToken
	}
	return r.URL.Query().Get("token")
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return -1
	}
	return n
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	Token string `json:"token"`
}

type PasswordResetRequestRequest struct {
	Email string `json:"email"`
}

type PasswordResetResetRequest struct {
	ResetCode   string `json:"reset_code"`
	NewPassword string `json:"new_password"`
}

func (s *Server) authRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.app.Register(req.Email, req.Password, req.NameFirst, req.NameLast)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, res)
}

func (s *Server) authLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	res, err := s.app.Login(req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, res)
}

func (s *Server) authLogout(w http.ResponseWriter, r *http.Request) {
	var req LogoutRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.Logout(requestToken(r, req.Token)); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) passwordResetRequest(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequestRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.PasswordResetRequest(req.Email); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) passwordResetReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetResetRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.PasswordResetReset(req.ResetCode, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Clear(); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, http.StatusOK, map[string]string{"status": "ok"})
}
