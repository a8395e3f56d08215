package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"erasmus_backend/internal/app/router"
	accommodationadapters "erasmus_backend/internal/feature/accommodation/adapters"
	accommodationhandler "erasmus_backend/internal/feature/accommodation/transport/handler"
	accommodationusecase "erasmus_backend/internal/feature/accommodation/usecase"
	authadapters "erasmus_backend/internal/feature/auth/adapters"
	authhandler "erasmus_backend/internal/feature/auth/transport/handler"
	"erasmus_backend/internal/feature/auth/transport/middleware"
	authusecase "erasmus_backend/internal/feature/auth/usecase"
	eventadapters "erasmus_backend/internal/feature/event/adapters"
	eventhandler "erasmus_backend/internal/feature/event/transport/handler"
	eventusecase "erasmus_backend/internal/feature/event/usecase"
	followadapters "erasmus_backend/internal/feature/follow/adapters"
	followhandler "erasmus_backend/internal/feature/follow/transport/handler"
	followusecase "erasmus_backend/internal/feature/follow/usecase"
	forumadapters "erasmus_backend/internal/feature/forum/adapters"
	forumhandler "erasmus_backend/internal/feature/forum/transport/handler"
	forumusecase "erasmus_backend/internal/feature/forum/usecase"
	hostadapters "erasmus_backend/internal/feature/host/adapters"
	hosthandler "erasmus_backend/internal/feature/host/transport/handler"
	hostusecase "erasmus_backend/internal/feature/host/usecase"
	locationhandler "erasmus_backend/internal/feature/location/transport/handler"
	locationusecase "erasmus_backend/internal/feature/location/usecase"
	recommendationadapters "erasmus_backend/internal/feature/recommendation/adapters"
	recommendationhandler "erasmus_backend/internal/feature/recommendation/transport/handler"
	recommendationusecase "erasmus_backend/internal/feature/recommendation/usecase"
	reservationadapters "erasmus_backend/internal/feature/reservation/adapters"
	reservationhandler "erasmus_backend/internal/feature/reservation/transport/handler"
	reservationusecase "erasmus_backend/internal/feature/reservation/usecase"
	reviewadapters "erasmus_backend/internal/feature/review/adapters"
	reviewhandler "erasmus_backend/internal/feature/review/transport/handler"
	reviewusecase "erasmus_backend/internal/feature/review/usecase"
	useradapters "erasmus_backend/internal/feature/user/adapters"
	userhandler "erasmus_backend/internal/feature/user/transport/handler"
	userusecase "erasmus_backend/internal/feature/user/usecase"
	"erasmus_backend/internal/platform/health"
	platformhandler "erasmus_backend/internal/platform/http/handler"
	jwtmw "erasmus_backend/internal/platform/jwt"
	"erasmus_backend/internal/platform/password"
	"erasmus_backend/internal/platform/realtime"
	"erasmus_backend/internal/platform/storage"
)

// Deps はHTTPアプリケーションの組み立てに必要な外部リソースです。
type Deps struct {
	DB *gorm.DB
	// Redis はnil可。nilの場合は位置情報をキャッシュせず、/readyzでもRedisを確認しません。
	Redis          *redis.Client
	Logger         *slog.Logger
	Registerer     prometheus.Registerer
	Moderator      Moderator
	Store          *storage.LocalStore
	Hub            *realtime.Hub
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins []string
	// Locations は国・都市の取得元です。通常はNewLocationRepositoryの戻り値を渡します。
	Locations locationusecase.LocationRepository
}

// NewHTTPHandler はリポジトリ・usecase・ハンドラーを組み立て、ルーターを返します。
func NewHTTPHandler(d Deps) *gin.Engine {
	// リポジトリ
	users := authadapters.NewUserRepository(d.DB)
	links := useradapters.NewSocialLinkRepository(d.DB)
	languages := useradapters.NewLanguageRepository(d.DB)
	follows := followadapters.NewFollowRepository(d.DB)
	accommodations := accommodationadapters.NewAccommodationRepository(d.DB)
	accommodationImages := accommodationadapters.NewImageRepository(d.DB)
	reservations := reservationadapters.NewReservationRepository(d.DB)
	reviews := reviewadapters.NewReviewRepository(d.DB)
	events := eventadapters.NewEventRepository(d.DB)
	forums := forumadapters.NewForumRepository(d.DB)
	threads := forumadapters.NewThreadRepository(d.DB)
	messages := forumadapters.NewMessageRepository(d.DB)
	recommendations := recommendationadapters.NewRecommendationRepository(d.DB)
	recommendationImages := recommendationadapters.NewImageRepository(d.DB)
	hostRequests := hostadapters.NewHostRequestRepository(d.DB)
	specialities := hostadapters.NewSpecialityRepository(d.DB)

	hasher := password.NewHasher(bcrypt.DefaultCost)
	tokens := jwtmw.NewTokenService(d.JWTSecret, d.JWTTTL)

	// ユースケース
	authUC := authusecase.NewAuthUsecase(users, hasher, tokens)
	userUC := userusecase.NewUserUsecase(users, links, languages, hasher)
	followUC := followusecase.NewFollowUsecase(follows, users, d.Hub)
	accommodationUC := accommodationusecase.NewAccommodationUsecase(accommodations, accommodationImages, reservations, d.Moderator, d.Store)
	reservationUC := reservationusecase.NewReservationUsecase(reservations, accommodations)
	reviewUC := reviewusecase.NewReviewUsecase(reviews, reservations, d.Moderator)
	eventUC := eventusecase.NewEventUsecase(events, users)
	forumUC := forumusecase.NewForumUsecase(forums, threads, messages, d.Moderator)
	recommendationUC := recommendationusecase.NewRecommendationUsecase(recommendations, recommendationImages, d.Moderator, d.Store)
	hostUC := hostusecase.NewHostUsecase(hostRequests, specialities, d.Hub)
	locationUC := locationusecase.NewLocationUsecase(d.Locations)

	// ハンドラー
	h := router.Handlers{
		Health:          platformhandler.NewHealthHandler(newChecker(d)),
		Auth:            authhandler.NewAuthHandler(authUC),
		Users:           userhandler.NewUserHandler(userUC),
		Follows:         followhandler.NewFollowHandler(followUC),
		Realtime:        followhandler.NewRealtimeHandler(d.Hub, followUC, d.Logger),
		Accommodations:  accommodationhandler.NewAccommodationHandler(accommodationUC),
		Reservations:    reservationhandler.NewReservationHandler(reservationUC),
		Reviews:         reviewhandler.NewReviewHandler(reviewUC),
		Events:          eventhandler.NewEventHandler(eventUC),
		Forums:          forumhandler.NewForumHandler(forumUC),
		Recommendations: recommendationhandler.NewRecommendationHandler(recommendationUC),
		Hosts:           hosthandler.NewHostHandler(hostUC),
		Locations:       locationhandler.NewLocationHandler(locationUC),
	}

	uploadDir := ""
	if d.Store != nil {
		uploadDir = d.Store.Dir()
	}
	return router.NewRouter(h, router.Options{
		Logger:                d.Logger,
		Authenticate:          middleware.Authenticate(tokens, users),
		AuthenticateWebSocket: middleware.AuthenticateWebSocket(tokens, users),
		AllowedOrigins:        d.AllowedOrigins,
		UploadDir:             uploadDir,
	})
}

// newChecker は/readyzで確認する依存先を登録します。
func newChecker(d Deps) *health.Checker {
	deps := map[string]health.Pinger{
		"database": health.PingerFunc(func(ctx context.Context) error {
			sqlDB, err := d.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}),
	}
	if d.Redis != nil {
		deps["redis"] = health.PingerFunc(func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		})
	}
	return health.NewChecker(deps, d.Logger, d.Registerer)
}
