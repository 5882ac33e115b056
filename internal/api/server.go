// Package api exposes the seams service over HTTP.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/seamshq/go-seams/internal/config"
	"github.com/seamshq/go-seams/internal/rt"
	"github.com/seamshq/go-seams/internal/seams"
)

type Server struct {
	log *log.Logger
	app *seams.Seams
	hub *rt.Hub
	mux *http.Server
}

func NewServer(mux *http.ServeMux, logger *log.Logger, app *seams.Seams, hub *rt.Hub, cfg *config.Config) *Server {
	s := &Server{
		log: logger,
		app: app,
		hub: hub,
	}

	mux.HandleFunc("POST /auth/register/v2", s.authRegister)
	mux.HandleFunc("POST /auth/login/v2", s.authLogin)
	mux.HandleFunc("POST /auth/logout/v1", s.authLogout)
	mux.HandleFunc("POST /auth/passwordreset/request/v1", s.passwordResetRequest)
	mux.HandleFunc("POST /auth/passwordreset/reset/v1", s.passwordResetReset)

	mux.HandleFunc("POST /channels/create/v2", s.channelsCreate)
	mux.HandleFunc("GET /channels/list/v2", s.channelsList)
	mux.HandleFunc("GET /channels/listall/v2", s.channelsListAll)

	mux.HandleFunc("POST /channel/invite/v2", s.channelInvite)
	mux.HandleFunc("GET /channel/details/v2", s.channelDetails)
	mux.HandleFunc("GET /channel/messages/v2", s.channelMessages)
	mux.HandleFunc("POST /channel/join/v2", s.channelJoin)
	mux.HandleFunc("POST /channel/leave/v1", s.channelLeave)
	mux.HandleFunc("POST /channel/addowner/v1", s.channelAddOwner)
	mux.HandleFunc("POST /channel/removeowner/v1", s.channelRemoveOwner)

	mux.HandleFunc("POST /message/send/v1", s.messageSend)
	mux.HandleFunc("POST /message/senddm/v1", s.messageSendDM)
	mux.HandleFunc("PUT /message/edit/v1", s.messageEdit)
	mux.HandleFunc("DELETE /message/remove/v1", s.messageRemove)
	mux.HandleFunc("POST /message/react/v1", s.messageReact)
	mux.HandleFunc("POST /message/unreact/v1", s.messageUnreact)
	mux.HandleFunc("POST /message/pin/v1", s.messagePin)
	mux.HandleFunc("POST /message/unpin/v1", s.messageUnpin)
	mux.HandleFunc("POST /message/sendlater/v1", s.messageSendLater)
	mux.HandleFunc("POST /message/sendlaterdm/v1", s.messageSendLaterDM)
	mux.HandleFunc("POST /message/share/v1", s.messageShare)

	mux.HandleFunc("POST /dm/create/v1", s.dmCreate)
	mux.HandleFunc("GET /dm/list/v1", s.dmList)
	mux.HandleFunc("GET /dm/details/v1", s.dmDetails)
	mux.HandleFunc("GET /dm/messages/v1", s.dmMessages)
	mux.HandleFunc("POST /dm/leave/v1", s.dmLeave)
	mux.HandleFunc("DELETE /dm/remove/v1", s.dmRemove)

	mux.HandleFunc("GET /users/all/v1", s.usersAll)
	mux.HandleFunc("GET /user/profile/v1", s.userProfile)
	mux.HandleFunc("PUT /user/profile/setname/v1", s.userSetName)
	mux.HandleFunc("PUT /user/profile/setemail/v1", s.userSetEmail)
	mux.HandleFunc("PUT /user/profile/sethandle/v1", s.userSetHandle)
	mux.HandleFunc("POST /user/profile/uploadphoto/v1", s.userUploadPhoto)
	mux.HandleFunc("GET /user/stats/v1", s.userStats)
	mux.HandleFunc("GET /users/stats/v1", s.usersStats)

	mux.HandleFunc("GET /search/v1", s.search)
	mux.HandleFunc("GET /notifications/get/v1", s.notificationsGet)

	mux.HandleFunc("POST /standup/start/v1", s.standupStart)
	mux.HandleFunc("GET /standup/active/v1", s.standupActive)
	mux.HandleFunc("POST /standup/send/v1", s.standupSend)

	mux.HandleFunc("DELETE /admin/user/remove/v1", s.adminUserRemove)
	mux.HandleFunc("POST /admin/userpermission/change/v1", s.adminUserPermissionChange)

	mux.HandleFunc("DELETE /clear/v1", s.clear)
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /ws", s.serveWs)

	if cfg.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/",
			http.FileServer(http.Dir(cfg.StaticDir))))
	}

	h := handlers.CORS(
		handlers.MaxAge(3600),
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Origin", "Content-Type", "Accept", "Authorization"}),
		handlers.AllowCredentials(),
	)(mux)

	h = s.errorHandler(h)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: h,
	}

	s.mux = srv
	return s
}

func (s *Server) Start() error {
	s.log.Printf("Starting server on %s\n", s.mux.Addr)
	return s.mux.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Println("Shutting down server...")
	if err := s.mux.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Println("Server shutdown complete")
	return nil
}
