package domain

// NoticeLevel mirrors the inline message styles shown to the player.
type NoticeLevel string

const (
	LevelInfo    NoticeLevel = "info"
	LevelSuccess NoticeLevel = "success"
	LevelWarning NoticeLevel = "warning"
	LevelError   NoticeLevel = "error"
)

// Notice is one-shot feedback produced by an action.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

// Control describes whether an interactive control may be used.
type Control struct {
	Enabled bool `json:"enabled"`
}

// Controls lists every control the game exposes.
type Controls struct {
	StartTimer   Control `json:"startTimer"`
	Reset        Control `json:"reset"`
	Search       Control `json:"search"`
	AnswerSelect Control `json:"answerSelect"`
	Submit       Control `json:"submit"`
	NextQuote    Control `json:"nextQuote"`
}

// View is the rendered snapshot of a session sent to clients after every action or tick.
type View struct {
	Score       int      `json:"score"`
	Attempts    int      `json:"attempts"`
	Keyword     string   `json:"keyword"`
	PoolSize    int      `json:"poolSize"`
	Phase       Phase    `json:"phase"`
	Quote       string   `json:"quote,omitempty"`
	Options     []string `json:"options"`
	TimerActive bool     `json:"timerActive"`
	TimeLeft    string   `json:"timeLeft,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Controls    Controls `json:"controls"`
}

// Update is what a session action returns: the fresh view plus the notices it raised.
type Update struct {
	View    View     `json:"view"`
	Notices []Notice `json:"notices"`
}
