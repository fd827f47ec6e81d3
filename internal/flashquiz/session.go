package flashquiz

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseReady   Phase = "ready"
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
)

var (
	ErrInvalidConfig     = errors.New("invalid game config")
	ErrNoConfig          = errors.New("no game config installed")
	ErrCardOutOfRange    = errors.New("card index out of range")
	ErrNoActiveCard      = errors.New("no active card")
	ErrNotMultipleChoice = errors.New("active card is not a multiple-choice quiz")
	ErrInvalidSnapshot   = errors.New("invalid session snapshot")
)

// Op names a state transition.
type Op string

const (
	OpInstallConfig     Op = "install_config"
	OpStartGame         Op = "start_game"
	OpActivateCard      Op = "activate_card"
	OpDeactivateCard    Op = "deactivate_card"
	OpMarkAnswerCorrect Op = "mark_answer_correct"
	OpRevealActiveCard  Op = "reveal_active_card"
	OpReset             Op = "reset"
)

// Change describes a committed transition. Card is -1 when the operation
// does not concern a single card.
type Change struct {
	Op       Op
	Phase    Phase
	Card     int
	Revealed int
}

// Session is the play-session state machine. It is not safe for concurrent
// use; callers serialize access and route every mutation through its methods.
type Session struct {
	config    *GameConfig
	revealed  []int
	active    int
	hasActive bool
	correct   bool
	phase     Phase
	observers []func(Change)
}

func NewSession() *Session {
	return &Session{phase: PhaseSetup}
}

// OnChange registers fn to run after each successful transition.
func (s *Session) OnChange(fn func(Change)) {
	s.observers = append(s.observers, fn)
}

func (s *Session) notify(op Op, card int) {
	c := Change{Op: op, Phase: s.phase, Card: card, Revealed: len(s.revealed)}
	for _, fn := range s.observers {
		fn(c)
	}
}

// InstallConfig hands a validated configuration to the session. Any reveal
// progress from a previous configuration is dropped.
func (s *Session) InstallConfig(cfg GameConfig) error {
	if err := checkConfig(cfg); err != nil {
		return err
	}
	s.config = &cfg
	s.clearPlay()
	s.phase = PhaseReady
	s.notify(OpInstallConfig, -1)
	return nil
}

func checkConfig(cfg GameConfig) error {
	if cfg.CardCount < MinCards {
		return fmt.Errorf("%w: need at least %d cards, got %d", ErrInvalidConfig, MinCards, cfg.CardCount)
	}
	if cfg.CardCount != len(cfg.Cards) {
		return fmt.Errorf("%w: card count %d does not match %d cards", ErrInvalidConfig, cfg.CardCount, len(cfg.Cards))
	}
	seen := make([]bool, cfg.CardCount)
	for _, c := range cfg.Cards {
		if c.Index < 0 || c.Index >= cfg.CardCount || seen[c.Index] {
			return fmt.Errorf("%w: card index %d is out of range or repeated", ErrInvalidConfig, c.Index)
		}
		if c.Quiz == nil {
			return fmt.Errorf("%w: card %d has no quiz", ErrInvalidConfig, c.Index)
		}
		seen[c.Index] = true
	}
	return nil
}

// StartGame begins, or restarts, play on the installed configuration.
func (s *Session) StartGame() error {
	if s.config == nil {
		return ErrNoConfig
	}
	s.clearPlay()
	s.phase = PhasePlaying
	s.notify(OpStartGame, -1)
	return nil
}

// ActivateCard makes card i the one being quizzed. Activating a card that
// is already revealed is ignored and reports false.
func (s *Session) ActivateCard(i int) (bool, error) {
	if s.config == nil {
		return false, ErrNoConfig
	}
	if i < 0 || i >= s.config.CardCount {
		return false, fmt.Errorf("%w: %d", ErrCardOutOfRange, i)
	}
	if s.IsRevealed(i) {
		return false, nil
	}
	s.active, s.hasActive = i, true
	s.correct = false
	s.notify(OpActivateCard, i)
	return true, nil
}

func (s *Session) DeactivateCard() {
	card := -1
	if s.hasActive {
		card = s.active
	}
	s.hasActive = false
	s.correct = false
	s.notify(OpDeactivateCard, card)
}

func (s *Session) MarkAnswerCorrect() error {
	if !s.hasActive {
		return ErrNoActiveCard
	}
	s.correct = true
	s.notify(OpMarkAnswerCorrect, s.active)
	return nil
}

// RevealActiveCard uncovers the active card. The session is won once every
// card has been revealed.
func (s *Session) RevealActiveCard() error {
	if !s.hasActive {
		return ErrNoActiveCard
	}
	i := s.active
	s.revealed = append(s.revealed, i)
	s.hasActive = false
	s.correct = false
	if s.Complete() {
		s.phase = PhaseWon
	} else {
		s.phase = PhasePlaying
	}
	s.notify(OpRevealActiveCard, i)
	return nil
}

func (s *Session) Reset() {
	s.config = nil
	s.clearPlay()
	s.phase = PhaseSetup
	s.notify(OpReset, -1)
}

func (s *Session) clearPlay() {
	s.revealed = nil
	s.hasActive = false
	s.correct = false
}

func (s *Session) Phase() Phase { return s.phase }

func (s *Session) Config() (GameConfig, bool) {
	if s.config == nil {
		return GameConfig{}, false
	}
	return *s.config, true
}

// Revealed returns revealed card indices in reveal order.
func (s *Session) Revealed() []int {
	return slices.Clone(s.revealed)
}

func (s *Session) IsRevealed(i int) bool {
	return slices.Contains(s.revealed, i)
}

// ActiveIndex returns the active card index, if any.
func (s *Session) ActiveIndex() (int, bool) {
	return s.active, s.hasActive
}

func (s *Session) ActiveCard() (Card, bool) {
	if !s.hasActive || s.config == nil {
		return Card{}, false
	}
	return s.config.CardAt(s.active)
}

func (s *Session) CorrectAnswered() bool { return s.correct }

// CanAdvance reports whether the active card may be revealed: media quizzes
// always may, multiple-choice ones once answered correctly.
func (s *Session) CanAdvance() bool {
	card, ok := s.ActiveCard()
	if !ok {
		return false
	}
	switch card.Quiz.(type) {
	case *Media:
		return true
	case *MultipleChoice:
		return s.correct
	default:
		panic(fmt.Sprintf("flashquiz: unhandled quiz %T", card.Quiz))
	}
}

func (s *Session) Complete() bool {
	return s.config != nil && len(s.revealed) >= s.config.CardCount
}

// Progress is the share of revealed cards, rounded to a whole percent.
func (s *Session) Progress() int {
	if s.config == nil || s.config.CardCount == 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(s.revealed)) / float64(s.config.CardCount)))
}

func (s *Session) Grid() Grid {
	if s.config == nil {
		return Grid{}
	}
	return GridFor(s.config.CardCount)
}

// Snapshot is the serializable state of a Session.
type Snapshot struct {
	Config          *GameConfig `json:"config"`
	RevealedCards   []int       `json:"revealedCards"`
	ActiveCardIndex *int        `json:"activeCardIndex"`
	CorrectAnswered bool        `json:"correctAnswered"`
	Phase           Phase       `json:"phase"`
}

func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		RevealedCards:   s.Revealed(),
		CorrectAnswered: s.correct,
		Phase:           s.phase,
	}
	if snap.RevealedCards == nil {
		snap.RevealedCards = []int{}
	}
	if s.config != nil {
		cfg := *s.config
		snap.Config = &cfg
	}
	if s.hasActive {
		i := s.active
		snap.ActiveCardIndex = &i
	}
	return snap
}

// Restore rebuilds a Session from snap, rejecting snapshots that break the
// session invariants.
func Restore(snap Snapshot) (*Session, error) {
	s := &Session{phase: snap.Phase, correct: snap.CorrectAnswered}
	switch snap.Phase {
	case PhaseSetup:
		if snap.Config != nil || len(snap.RevealedCards) > 0 || snap.ActiveCardIndex != nil {
			return nil, fmt.Errorf("%w: setup phase carries play state", ErrInvalidSnapshot)
		}
		return s, nil
	case PhaseReady, PhasePlaying, PhaseWon:
	default:
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidSnapshot, snap.Phase)
	}

	if snap.Config == nil {
		return nil, fmt.Errorf("%w: phase %s without config", ErrInvalidSnapshot, snap.Phase)
	}
	if err := checkConfig(*snap.Config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	cfg := *snap.Config
	s.config = &cfg

	for _, i := range snap.RevealedCards {
		if i < 0 || i >= cfg.CardCount || slices.Contains(s.revealed, i) {
			return nil, fmt.Errorf("%w: bad revealed card %d", ErrInvalidSnapshot, i)
		}
		s.revealed = append(s.revealed, i)
	}
	if snap.ActiveCardIndex != nil {
		i := *snap.ActiveCardIndex
		if i < 0 || i >= cfg.CardCount || s.IsRevealed(i) {
			return nil, fmt.Errorf("%w: bad active card %d", ErrInvalidSnapshot, i)
		}
		s.active, s.hasActive = i, true
	} else if s.correct {
		return nil, fmt.Errorf("%w: correct answer without active card", ErrInvalidSnapshot)
	}
	if (snap.Phase == PhaseWon) != s.Complete() {
		return nil, fmt.Errorf("%w: phase %s with %d of %d cards revealed", ErrInvalidSnapshot, snap.Phase, len(s.revealed), cfg.CardCount)
	}
	return s, nil
}
