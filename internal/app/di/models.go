package di

import (
	accommodation "erasmus_backend/internal/feature/accommodation/domain/entity"
	auth "erasmus_backend/internal/feature/auth/domain/entity"
	event "erasmus_backend/internal/feature/event/domain/entity"
	follow "erasmus_backend/internal/feature/follow/domain/entity"
	forum "erasmus_backend/internal/feature/forum/domain/entity"
	host "erasmus_backend/internal/feature/host/domain/entity"
	recommendation "erasmus_backend/internal/feature/recommendation/domain/entity"
	reservation "erasmus_backend/internal/feature/reservation/domain/entity"
	review "erasmus_backend/internal/feature/review/domain/entity"
	user "erasmus_backend/internal/feature/user/domain/entity"
)

// Models はAutoMigrateの対象となる全テーブルのモデルを、外部キーの依存順に返します。
func Models() []any {
	return []any{
		&auth.User{},
		&user.SocialMediaLink{},
		&user.UserLanguage{},
		&follow.Follow{},
		&accommodation.Accommodation{},
		&accommodation.Image{},
		&reservation.Reservation{},
		&review.Review{},
		&event.Event{},
		&event.Participant{},
		&forum.Forum{},
		&forum.Thread{},
		&forum.Message{},
		&recommendation.Recommendation{},
		&recommendation.Image{},
		&host.Speciality{},
		&host.HostRequest{},
	}
}
