package api

import (
	"net/http"

	"github.com/seamshq/go-seams/internal/seams"
)

type CreateDMRequest struct {
	Token string `json:"token"`
	UIDs  []int  `json:"u_ids"`
}

type DMRequest struct {
	Token string `json:"token"`
	DMID  int    `json:"dm_id"`
}

type DMListResponse struct {
	DMs []seams.DMSummary `json:"dms"`
}

func (s *Server) dmCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateDMRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	dmID, err := s.app.DMCreate(requestToken(r, req.Token), req.UIDs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"dm_id": dmID})
}

func (s *Server) dmList(w http.ResponseWriter, r *http.Request) {
	dms, err := s.app.DMList(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, DMListResponse{DMs: dms})
}

func (s *Server) dmDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.app.DMDetails(requestToken(r, ""), queryInt(r, "dm_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, details)
}

func (s *Server) dmMessages(w http.ResponseWriter, r *http.Request) {
	page, err := s.app.DMMessages(requestToken(r, ""), queryInt(r, "dm_id"), queryInt(r, "start"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, page)
}

func (s *Server) dmLeave(w http.ResponseWriter, r *http.Request) {
	var req DMRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.DMLeave(requestToken(r, req.Token), req.DMID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) dmRemove(w http.ResponseWriter, r *http.Request) {
	var req DMRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.DMRemove(requestToken(r, req.Token), req.DMID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}
