package attachment

// Single-table key prefixes.
const (
	UserKey     = "USER#"
	WorkoutKey  = "WORKOUT#"
	ProgressKey = "PROGRESS#"
)

// Ownership tags placed on uploaded objects.
const (
	TagUserID    = "userId"
	TagWorkoutID = "workoutId"
)

// Event is a validated object-creation notification.
type Event struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	EventName string `json:"event_name"`
	EventTime string `json:"event_time,omitempty"` // raw notification value, empty when absent
}

// Ownership routes a photo to one workout.
type Ownership struct {
	UserID    string `json:"user_id"`
	WorkoutID string `json:"workout_id"`
}

// Attachment is everything the writer needs for one transactional attach.
type Attachment struct {
	UserID    string `json:"user_id"`
	WorkoutID string `json:"workout_id"`
	PhotoID   string `json:"photo_id"`
	URL       string `json:"image"`
	ImageKey  string `json:"image_key"`
}

// PK is the partition key shared by the workout and progress records.
func (a Attachment) PK() string {
	return UserKey + a.UserID
}

// WorkoutSK is the sort key of the aggregate workout record.
func (a Attachment) WorkoutSK() string {
	return WorkoutKey + a.WorkoutID
}

// ProgressSK is the sort key of the per-photo record.
func (a Attachment) ProgressSK() string {
	return ProgressKey + a.WorkoutID + "#" + a.PhotoID
}

// Result describes the outcome of one attach.
type Result struct {
	Attachment
	Status Status `json:"status"`
	Replay bool   `json:"replay"`
}

// Ack is returned to the invoking runtime once an event has been handled.
type Ack struct {
	Status string `json:"status"`
	Replay bool   `json:"replay,omitempty"`
}

// AckOK acknowledges a handled event.
var AckOK = Ack{Status: "ok"}
