package notify

import "time"

// Типы событий и имя стрима. События читают другие инстансы приложения,
// чтобы открытые сессии одного аккаунта сходились без перезагрузки.
const (
	AdminNotice = "admin.notice"

	AdminEventsStream = "atompoint.admin.events"
)

// Event конверт события в redis stream.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type AdminNoticeEvent struct {
	Message string `json:"message"`
}
