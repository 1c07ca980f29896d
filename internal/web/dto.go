package web

// Message is one websocket frame from the server. Data holds one of the
// DTOs below, chosen by Type.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Request is one websocket frame from the browser.
type Request struct {
	Type  string `json:"type"` // start | click | theme
	ID    uint64 `json:"id,omitempty"`
	Theme string `json:"theme,omitempty"`
}

type BallDTO struct {
	ID     uint64  `json:"id"`
	Kind   string  `json:"kind"`
	Points int     `json:"points"`
	Size   float64 `json:"size"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type DefinitionDTO struct {
	Kind   string `json:"kind"`
	Points int    `json:"points"`
	Color  string `json:"color"` // #rrggbb
	Glyph  string `json:"glyph,omitempty"`
}

type RecordDTO struct {
	Player    string `json:"player"`
	HighScore int    `json:"highScore"`
	BestCombo int    `json:"bestCombo"`
	Theme     string `json:"theme"`
}

// WelcomeDTO is sent once after the websocket opens.
type WelcomeDTO struct {
	FieldWidth  float64         `json:"fieldWidth"`
	FieldHeight float64         `json:"fieldHeight"`
	RoundTime   int             `json:"roundTime"`
	Balls       []DefinitionDTO `json:"balls"`
	Record      RecordDTO       `json:"record"`
	Top         []RecordDTO     `json:"top"`
}

type RoundStartedDTO struct {
	ID       string `json:"id"`
	TimeLeft int    `json:"timeLeft"`
}

type RoundEndedDTO struct {
	ID           string `json:"id"`
	Score        int    `json:"score"`
	Combo        int    `json:"combo"`
	HighScore    int    `json:"highScore"`
	NewHighScore bool   `json:"newHighScore"`
}

type BallRemovedDTO struct {
	ID     uint64 `json:"id"`
	Reason string `json:"reason"`
}

type ScoreDTO struct {
	Score int `json:"score"`
}

type ComboDTO struct {
	Combo     int `json:"combo"`
	BestCombo int `json:"bestCombo"`
}

type TimeDTO struct {
	TimeLeft int `json:"timeLeft"`
}

type PointsDTO struct {
	BallID uint64  `json:"ballId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Points int     `json:"points"`
	Combo  int     `json:"combo"`
}

type PowerUpDTO struct {
	Kind  string `json:"kind"`
	Label string `json:"label,omitempty"`
}

type ErrorDTO struct {
	Error string `json:"error"`
}
