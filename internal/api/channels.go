package api

import (
	"net/http"

	"github.com/seamshq/go-seams/internal/seams"
)

type CreateChannelRequest struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

type ChannelRequest struct {
	Token     string `json:"token"`
	ChannelID int    `json:"channel_id"`
}

type ChannelUserRequest struct {
	Token     string `json:"token"`
	ChannelID int    `json:"channel_id"`
	UID       int    `json:"u_id"`
}

type ChannelsListResponse struct {
	Channels []seams.ChannelSummary `json:"channels"`
}

func (s *Server) channelsCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateChannelRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	channelID, err := s.app.ChannelsCreate(requestToken(r, req.Token), req.Name, req.IsPublic)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"channel_id": channelID})
}

func (s *Server) channelsList(w http.ResponseWriter, r *http.Request) {
	channels, err := s.app.ChannelsList(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, ChannelsListResponse{Channels: channels})
}

func (s *Server) channelsListAll(w http.ResponseWriter, r *http.Request) {
	channels, err := s.app.ChannelsListAll(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, ChannelsListResponse{Channels: channels})
}

func (s *Server) channelInvite(w http.ResponseWriter, r *http.Request) {
	var req ChannelUserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.ChannelInvite(requestToken(r, req.Token), req.ChannelID, req.UID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) channelDetails(w http.ResponseWriter, r *http.Request) {
	details, err := s.app.ChannelDetails(requestToken(r, ""), queryInt(r, "channel_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, details)
}

func (s *Server) channelMessages(w http.ResponseWriter, r *http.Request) {
	page, err := s.app.ChannelMessages(requestToken(r, ""),
		queryInt(r, "channel_id"), queryInt(r, "start"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, page)
}

func (s *Server) channelJoin(w http.ResponseWriter, r *http.Request) {
	var req ChannelRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.ChannelJoin(requestToken(r, req.Token), req.ChannelID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) channelLeave(w http.ResponseWriter, r *http.Request) {
	var req ChannelRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.ChannelLeave(requestToken(r, req.Token), req.ChannelID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) channelAddOwner(w http.ResponseWriter, r *http.Request) {
	var req ChannelUserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.ChannelAddOwner(requestToken(r, req.Token), req.ChannelID, req.UID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) channelRemoveOwner(w http.ResponseWriter, r *http.Request) {
	var req ChannelUserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.ChannelRemoveOwner(requestToken(r, req.Token), req.ChannelID, req.UID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

type StandupStartRequest struct {
	Token     string `json:"token"`
	ChannelID int    `json:"channel_id"`
	Length    int    `json:"length"`
}

type StandupSendRequest struct {
	Token     string `json:"token"`
	ChannelID int    `json:"channel_id"`
	Message   string `json:"message"`
}

func (s *Server) standupStart(w http.ResponseWriter, r *http.Request) {
	var req StandupStartRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	timeFinish, err := s.app.StandupStart(requestToken(r, req.Token), req.ChannelID, req.Length)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int64{"time_finish": timeFinish})
}

func (s *Server) standupActive(w http.ResponseWriter, r *http.Request) {
	status, err := s.app.StandupActive(requestToken(r, ""), queryInt(r, "channel_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, status)
}

func (s *Server) standupSend(w http.ResponseWriter, r *http.Request) {
	var req StandupSendRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.StandupSend(requestToken(r, req.Token), req.ChannelID, req.Message); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}
