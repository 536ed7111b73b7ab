package state

// State identifies the conversation step a user is in.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Store keeps one record of type T per user.
// Get returns the zero value and false when the user has no record.
type Store[T any] interface {
	Get(userID int64) (T, bool)
	Put(userID int64, rec T)
	// Update applies fn to the current record (zero value if absent) under the store lock and saves the result.
	Update(userID int64, fn func(rec *T)) T
	Clear(userID int64)
	Len() int
}
