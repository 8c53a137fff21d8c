package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/mokjangapp/mokjang-server/internal/api"
	"github.com/mokjangapp/mokjang-server/internal/config"
	"github.com/mokjangapp/mokjang-server/internal/logger"
	"github.com/mokjangapp/mokjang-server/internal/media/photos"
	"github.com/mokjangapp/mokjang-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	photoStorage := do.MustInvoke[*photos.Storage](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Session:    do.MustInvoke[*service.SessionService](i),
		Member:     do.MustInvoke[*service.MemberService](i),
		Family:     do.MustInvoke[*service.FamilyService](i),
		Memo:       do.MustInvoke[*service.MemoService](i),
		Role:       do.MustInvoke[*service.RoleService](i),
		Taxonomy:   do.MustInvoke[*service.TaxonomyService](i),
		Chowon:     do.MustInvoke[*service.ChowonService](i),
		Roster:     do.MustInvoke[*service.RosterService](i),
		Assignment: do.MustInvoke[*service.AssignmentService](i),
		Photo:      do.MustInvoke[*service.PhotoService](i),
	}

	storage := &api.StorageServices{
		Photos: photoStorage,
	}

	handler := api.NewServer(storeHandle.Store, services, storage, cfg.Server.CORSOrigins, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
