package api

import (
	"net/http"

	"github.com/seamshq/go-seams/internal/seams"
)

type SetNameRequest struct {
	Token     string `json:"token"`
	NameFirst string `json:"name_first"`
	NameLast  string `json:"name_last"`
}

type SetEmailRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

type SetHandleRequest struct {
	Token     string `json:"token"`
	HandleStr string `json:"handle_str"`
}

type UploadPhotoRequest struct {
	Token  string `json:"token"`
	ImgURL string `json:"img_url"`
	XStart int    `json:"x_start"`
	YStart int    `json:"y_start"`
	XEnd   int    `json:"x_end"`
	YEnd   int    `json:"y_end"`
}

type AdminRemoveRequest struct {
	Token string `json:"token"`
	UID   int    `json:"u_id"`
}

type AdminPermissionChangeRequest struct {
	Token        string `json:"token"`
	UID          int    `json:"u_id"`
	PermissionID int    `json:"permission_id"`
}

type UsersAllResponse struct {
	Users []seams.Profile `json:"users"`
}

type UserProfileResponse struct {
	User seams.Profile `json:"user"`
}

type NotificationsResponse struct {
	Notifications []seams.Notification `json:"notifications"`
}

func (s *Server) usersAll(w http.ResponseWriter, r *http.Request) {
	users, err := s.app.UsersAll(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, UsersAllResponse{Users: users})
}

func (s *Server) userProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.app.UserProfile(requestToken(r, ""), queryInt(r, "u_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, UserProfileResponse{User: profile})
}

func (s *Server) userSetName(w http.ResponseWriter, r *http.Request) {
	var req SetNameRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.UserSetName(requestToken(r, req.Token), req.NameFirst, req.NameLast); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) userSetEmail(w http.ResponseWriter, r *http.Request) {
	var req SetEmailRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.UserSetEmail(requestToken(r, req.Token), req.Email); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) userSetHandle(w http.ResponseWriter, r *http.Request) {
	var req SetHandleRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.UserSetHandle(requestToken(r, req.Token), req.HandleStr); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) userUploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req UploadPhotoRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	err := s.app.UserUploadPhoto(requestToken(r, req.Token), req.ImgURL,
		req.XStart, req.YStart, req.XEnd, req.YEnd)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) userStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.UserStats(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]seams.UserStatsResult{"user_stats": stats})
}

func (s *Server) usersStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.UsersStats(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, map[string]seams.WorkspaceStatsResult{"workspace_stats": stats})
}

func (s *Server) notificationsGet(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.app.Notifications(requestToken(r, ""))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, NotificationsResponse{Notifications: notifications})
}

func (s *Server) adminUserRemove(w http.ResponseWriter, r *http.Request) {
	var req AdminRemoveRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.AdminUserRemove(requestToken(r, req.Token), req.UID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}

func (s *Server) adminUserPermissionChange(w http.ResponseWriter, r *http.Request) {
	var req AdminPermissionChangeRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if err := s.app.AdminUserPermissionChange(requestToken(r, req.Token), req.UID, req.PermissionID); err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJson(w, http.StatusOK, struct{}{})
}
