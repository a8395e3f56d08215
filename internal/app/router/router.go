// Package router はHTTPルーティングを組み立てます。
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"

	accommodationhandler "erasmus_backend/internal/feature/accommodation/transport/handler"
	"erasmus_backend/internal/feature/auth/domain/entity"
	authhandler "erasmus_backend/internal/feature/auth/transport/handler"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	eventhandler "erasmus_backend/internal/feature/event/transport/handler"
	followhandler "erasmus_backend/internal/feature/follow/transport/handler"
	forumhandler "erasmus_backend/internal/feature/forum/transport/handler"
	hosthandler "erasmus_backend/internal/feature/host/transport/handler"
	locationhandler "erasmus_backend/internal/feature/location/transport/handler"
	recommendationhandler "erasmus_backend/internal/feature/recommendation/transport/handler"
	reservationhandler "erasmus_backend/internal/feature/reservation/transport/handler"
	reviewhandler "erasmus_backend/internal/feature/review/transport/handler"
	userhandler "erasmus_backend/internal/feature/user/transport/handler"
	platformhandler "erasmus_backend/internal/platform/http/handler"
	"erasmus_backend/internal/platform/metrics"
	"erasmus_backend/internal/platform/requestid"
	"erasmus_backend/internal/platform/storage"
)

// Handlers はルーターに登録する全ハンドラーです。
type Handlers struct {
	Health          *platformhandler.HealthHandler
	Auth            *authhandler.AuthHandler
	Users           *userhandler.UserHandler
	Follows         *followhandler.FollowHandler
	Realtime        *followhandler.RealtimeHandler
	Accommodations  *accommodationhandler.AccommodationHandler
	Reservations    *reservationhandler.ReservationHandler
	Reviews         *reviewhandler.ReviewHandler
	Events          *eventhandler.EventHandler
	Forums          *forumhandler.ForumHandler
	Recommendations *recommendationhandler.RecommendationHandler
	Hosts           *hosthandler.HostHandler
	Locations       *locationhandler.LocationHandler
}

// Options はルーター全体に関わる設定です。
type Options struct {
	Logger *slog.Logger
	// Authenticate はAuthorizationヘッダーのBearerトークンを検証するミドルウェアです。
	Authenticate gin.HandlerFunc
	// AuthenticateWebSocket は/ws用で、?token= も受け付けます。
	AuthenticateWebSocket gin.HandlerFunc
	AllowedOrigins        []string
	// UploadDir が空でなければ storage.PublicPrefix 配下で静的配信します。
	UploadDir string
}

// NewRouter はミドルウェアと全ルートを登録したgin.Engineを返します。
//
// 一覧・取得系は認証済みであれば誰でも呼べます。作成・更新・削除系は
// Banned以外のロールが必要で、所有者チェックは各usecaseで行います。
func NewRouter(h Handlers, opt Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	if opt.Logger != nil {
		r.Use(sloggin.New(opt.Logger))
	}
	r.Use(metrics.Middleware())
	r.Use(cors.New(corsConfig(opt.AllowedOrigins)))

	// 認証不要
	r.GET("/healthz", h.Health.Live)
	r.HEAD("/healthz", h.Health.Live)
	r.GET("/readyz", h.Health.Ready)
	r.POST("/token", h.Auth.Token)
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/register", h.Auth.Register)
	if opt.UploadDir != "" {
		r.Static(storage.PublicPrefix, opt.UploadDir)
	}

	// ブラウザのWebSocketはヘッダーを付けられないため専用の認証を使う
	r.GET("/ws", opt.AuthenticateWebSocket, h.Realtime.ServeWS)

	// 認証必須のルート
	auth := r.Group("/", opt.Authenticate)
	// 書き込みはBanned以外
	write := auth.Group("/", middleware.RequireRole(entity.ActiveRoles...))
	admin := auth.Group("/", middleware.RequireRole(entity.RoleAdministrator))

	auth.GET("/me", h.Auth.Me)
	auth.GET("/auth/me", h.Auth.AuthMe)
	admin.GET("/admin-only", h.Auth.AdminOnly)

	registerUsers(auth, write, admin, h)
	registerAccommodations(auth, write, h)
	registerCommunity(auth, write, h)
	registerHosts(auth, write, admin, h)

	auth.GET("/locations/countries", h.Locations.Countries)
	auth.GET("/locations/countries/:country/cities", h.Locations.Cities)

	return r
}

// corsConfig はフロントエンドのオリジンからの呼び出しを許可します。
// オリジン未指定の場合はすべて許可し、資格情報付きリクエストは受け付けません。
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestid.Header},
		ExposeHeaders: []string{requestid.Header},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func registerUsers(auth, write, admin *gin.RouterGroup, h Handlers) {
	auth.GET("/users", h.Users.List)
	auth.GET("/users/:id", h.Users.Get)
	write.PATCH("/users/:id", h.Users.Update)
	write.DELETE("/users/:id", h.Users.Delete)
	admin.PUT("/users/:id/role", h.Users.ChangeRole)

	auth.GET("/users/:id/social-links", h.Users.SocialLinks)
	write.PUT("/users/:id/social-links", h.Users.ReplaceSocialLinks)
	auth.GET("/users/:id/languages", h.Users.Languages)
	write.PUT("/users/:id/languages", h.Users.ReplaceLanguages)

	write.POST("/users/:id/follow", h.Follows.Follow)
	write.DELETE("/users/:id/follow", h.Follows.Unfollow)
	auth.GET("/users/:id/followers", h.Follows.Followers)
	auth.GET("/users/:id/following", h.Follows.Following)
	auth.GET("/users/:id/follow-counts", h.Follows.Counts)

	// ユーザー単位の一覧
	auth.GET("/users/:id/accommodations", h.Accommodations.ListByOwner)
	auth.GET("/users/:id/reservations", h.Reservations.ListByUser)
	auth.GET("/users/:id/reviews", h.Reviews.ListByUser)
	auth.GET("/users/:id/events", h.Events.ListByCreator)
	auth.GET("/users/:id/participating-events", h.Events.ListParticipating)
	auth.GET("/users/:id/recommendations", h.Recommendations.ListByUser)
}

func registerAccommodations(auth, write *gin.RouterGroup, h Handlers) {
	// 作成はHostかAdministratorのみ
	auth.POST("/accommodations", middleware.RequireRole(entity.RoleHost, entity.RoleAdministrator), h.Accommodations.Create)
	auth.GET("/accommodations", h.Accommodations.List)
	auth.GET("/accommodations/countries", h.Accommodations.Countries)
	auth.GET("/accommodations/countries/:country/cities", h.Accommodations.Cities)
	auth.GET("/accommodations/:id", h.Accommodations.Get)
	write.PATCH("/accommodations/:id", h.Accommodations.Update)
	write.DELETE("/accommodations/:id", h.Accommodations.Delete)
	auth.GET("/accommodations/:id/unavailable-dates", h.Accommodations.UnavailableDates)
	auth.GET("/accommodations/:id/images", h.Accommodations.Images)
	write.POST("/accommodations/:id/images", h.Accommodations.AddImage)
	auth.GET("/accommodations/:id/reviews", h.Reviews.ListByAccommodation)

	write.POST("/reservations", h.Reservations.Create)
	auth.GET("/reservations/:id", h.Reservations.Get)
	write.PUT("/reservations/:id/status", h.Reservations.ChangeStatus)

	write.POST("/reviews", h.Reviews.Create)
	write.DELETE("/reviews/:id", h.Reviews.Delete)
}

func registerCommunity(auth, write *gin.RouterGroup, h Handlers) {
	auth.GET("/events", h.Events.List)
	auth.GET("/events/countries", h.Events.Countries)
	auth.GET("/events/:id", h.Events.Get)
	write.POST("/events", h.Events.Create)
	write.PATCH("/events/:id", h.Events.Update)
	write.DELETE("/events/:id", h.Events.Delete)
	write.POST("/events/:id/join", h.Events.Join)
	write.POST("/events/:id/leave", h.Events.Leave)
	auth.GET("/events/:id/participants", h.Events.Participants)

	auth.GET("/forums", h.Forums.List)
	auth.GET("/forums/:id", h.Forums.Get)
	write.POST("/forums", h.Forums.Create)
	write.PATCH("/forums/:id", h.Forums.Update)
	write.DELETE("/forums/:id", h.Forums.Delete)
	auth.GET("/forums/:id/threads", h.Forums.Threads)
	write.POST("/forums/:id/threads", h.Forums.CreateThread)
	auth.GET("/threads/:id", h.Forums.GetThread)
	write.DELETE("/threads/:id", h.Forums.DeleteThread)
	auth.GET("/threads/:id/messages", h.Forums.Messages)
	write.POST("/threads/:id/messages", h.Forums.PostMessage)
	auth.GET("/messages/:id/replies", h.Forums.Replies)
	write.DELETE("/messages/:id", h.Forums.DeleteMessage)

	auth.GET("/recommendations", h.Recommendations.List)
	auth.GET("/recommendations/:id", h.Recommendations.Get)
	write.POST("/recommendations", h.Recommendations.Create)
	write.PATCH("/recommendations/:id", h.Recommendations.Update)
	write.DELETE("/recommendations/:id", h.Recommendations.Delete)
	auth.GET("/recommendations/:id/images", h.Recommendations.Images)
	write.POST("/recommendations/:id/images", h.Recommendations.AddImage)
}

func registerHosts(auth, write, admin *gin.RouterGroup, h Handlers) {
	auth.GET("/hosts", h.Hosts.Hosts)
	write.POST("/hosts/requests", h.Hosts.Submit)
	admin.GET("/hosts/requests", h.Hosts.List)
	// 申請者本人も参照できるためadminグループには入れない
	auth.GET("/hosts/requests/:id", h.Hosts.Get)
	admin.POST("/hosts/requests/:id/approve", h.Hosts.Approve)
	admin.POST("/hosts/requests/:id/reject", h.Hosts.Reject)

	auth.GET("/specialities", h.Hosts.Specialities)
	admin.POST("/specialities", h.Hosts.CreateSpeciality)
}
