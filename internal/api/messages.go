package api

import (
	"net/http"

	"github.com/seamshq/go-seams/internal/store"
)

type SendMessageRequest struct {
	Token     string `json:"token"`
	ChannelID int    `json:"channel_id"`
	Message   string `json:"message"`
}

type SendDMMessageRequest struct {
	Token   string `json:"token"`
	DMID    int    `json:"dm_id"`
	Message string `json:"message"`
}

type EditMessageRequest struct {
	Token     string `json:"token"`
	MessageID int    `json:"message_id"`
	Message   string `json:"message"`
}

type MessageRequest struct {
	Token     string `json:"token"`
	MessageID int    `json:"message_id"`
}

type ReactRequest struct {
	Token     string `json:"token"`
	MessageID int    `json:"message_id"`
	ReactID   int    `json:"react_id"`
}

type SendLaterRequest struct {
	Token     string `json:"token"`
	ChannelID int    `json:"channel_id"`
	Message   string `json:"message"`
	TimeSent  int64  `json:"time_sent"`
}

type SendLaterDMRequest struct {
	Token    string `json:"token"`
	DMID     int    `json:"dm_id"`
	Message  string `json:"message"`
	TimeSent int64  `json:"time_sent"`
}

type ShareMessageRequest struct {
	Token       string `json:"token"`
	OGMessageID int    `json:"og_message_id"`
	Message     string `json:"message"`
	ChannelID   int    `json:"channel_id"`
	DMID        int    `json:"dm_id"`
}

type SearchResponse struct {
	Messages []store.Message `json:"messages"`
}

func (s *Server) messageSend(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	messageID, err := s.app.MessageSend(requestToken(r, req.Token), req.ChannelID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"message_id": messageID})
}

func (s *Server) messageSendDM(w http.ResponseWriter, r *http.Request) {
	var req SendDMMessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	messageID, err := s.app.MessageSendDM(requestToken(r, req.Token), req.DMID, req.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"message_id": messageID})
}

func (s *Server) messageEdit(w http.ResponseWriter, r *http.Request) {
	var req EditMessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.MessageEdit(requestToken(r, req.Token), req.MessageID, req.Message); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) messageRemove(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.MessageRemove(requestToken(r, req.Token), req.MessageID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) messageReact(w http.ResponseWriter, r *http.Request) {
	var req ReactRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.MessageReact(requestToken(r, req.Token), req.MessageID, req.ReactID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) messageUnreact(w http.ResponseWriter, r *http.Request) {
	var req ReactRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.MessageUnreact(requestToken(r, req.Token), req.MessageID, req.ReactID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) messagePin(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.MessagePin(requestToken(r, req.Token), req.MessageID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) messageUnpin(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.MessageUnpin(requestToken(r, req.Token), req.MessageID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) messageSendLater(w http.ResponseWriter, r *http.Request) {
	var req SendLaterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	messageID, err := s.app.MessageSendLater(requestToken(r, req.Token),
		req.ChannelID, req.Message, req.TimeSent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"message_id": messageID})
}

func (s *Server) messageSendLaterDM(w http.ResponseWriter, r *http.Request) {
	var req SendLaterDMRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	messageID, err := s.app.MessageSendLaterDM(requestToken(r, req.Token),
		req.DMID, req.Message, req.TimeSent)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"message_id": messageID})
}

func (s *Server) messageShare(w http.ResponseWriter, r *http.Request) {
	var req ShareMessageRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	sharedID, err := s.app.MessageShare(requestToken(r, req.Token),
		req.OGMessageID, req.Message, req.ChannelID, req.DMID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]int{"shared_message_id": sharedID})
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	messages, err := s.app.Search(requestToken(r, ""), r.URL.Query().Get("query_str"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, SearchResponse{Messages: messages})
}
