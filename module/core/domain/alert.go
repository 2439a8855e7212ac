package domain

type WalkAlertType string

const (
	WalkAreaExit   WalkAlertType = "walk_area_exit"
	WalkAreaReturn WalkAlertType = "walk_area_return"

	// WalkAreaWithdrawn retracts an exit alert when the session is restarted or ended.
	WalkAreaWithdrawn WalkAlertType = "walk_area_withdrawn"
)

type WalkAlert struct {
	SessionID  string        `json:"session_id"`
	Event      WalkAlertType `json:"event"`
	Identifier string        `json:"identifier"`
	Title      string        `json:"title"`
	Body       string        `json:"body"`
	Location   GeoPoint      `json:"location"`
	Distance   float64       `json:"distance"`
	Timestamp  int64         `json:"timestamp"`
}
