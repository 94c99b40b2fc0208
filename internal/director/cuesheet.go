package director

// CueSheet - читаемое расписание всех анимаций сцены. Пишется рядом с видео
// для монтажа и субтитров.
type CueSheet struct {
	Version  string   `yaml:"version"`
	Scene    string   `yaml:"scene"`
	Duration float64  `yaml:"duration"` // Общая длительность в секундах
	FPS      int      `yaml:"fps"`
	Frames   int      `yaml:"frames"`
	Objects  []Object `yaml:"objects"`
	Entries  []Entry  `yaml:"entries"`
}

// Object - объявленный объект сцены и его итоговое положение
type Object struct {
	ID     string    `yaml:"id"`
	Kind   string    `yaml:"kind"`
	Text   string    `yaml:"text,omitempty"`
	Bounds Bounds    `yaml:"bounds"` // Единицы сцены, y вверх
	Rect   Rectangle `yaml:"rect"`   // Пиксели, y вниз
}

// Entry - шаг таймлайна: группа анимаций или пауза
type Entry struct {
	Index int     `yaml:"index"`
	Kind  string  `yaml:"kind"`
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Cues  []Cue   `yaml:"cues,omitempty"`
}

// Cue - одна анимация на абсолютной шкале времени
type Cue struct {
	Action      string  `yaml:"action"`
	Target      string  `yaml:"target"`
	Replacement string  `yaml:"replacement,omitempty"`
	Start       float64 `yaml:"start"`
	End         float64 `yaml:"end"`
	RunTime     float64 `yaml:"run_time"`
	LagRatio    float64 `yaml:"lag_ratio,omitempty"`
	StartFrame  int     `yaml:"start_frame"`
	EndFrame    int     `yaml:"end_frame"`
}

// Bounds - прямоугольник в единицах сцены
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// Rectangle - ограничивающий прямоугольник в пикселях
type Rectangle struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}
