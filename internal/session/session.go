// Package session implements the chat session state machine: messages,
// reaction tallies, the draft, the bot typing indicator, the reaction picker
// and keyboard visibility.
//
// A Session is not safe for concurrent use. Every method must be called on
// the goroutine that consumes the session's scheduler callbacks, so timer
// work and user input never interleave.
package session

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatsim/internal/logging"
	"chatsim/internal/motion"
	"chatsim/internal/replies"
	"chatsim/internal/scheduler"
)

// Option configures a Session.
type Option func(*Session)

// WithResponder sets the reply selector. Defaults to replies.Default().
func WithResponder(r replies.Responder) Option {
	return func(s *Session) {
		if r != nil {
			s.responder = r
		}
	}
}

// WithPresenter sets the view port that receives scroll commands.
func WithPresenter(p Presenter) Option {
	return func(s *Session) {
		if p != nil {
			s.presenter = p
		}
	}
}

// WithIDGenerator replaces the UUIDv7 id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithReactions sets the allowed reaction symbols, in picker order.
func WithReactions(set []Reaction) Option {
	return func(s *Session) {
		if len(set) > 0 {
			s.reactionSet = append([]Reaction(nil), set...)
		}
	}
}

// WithReplyDelay sets the delay between a submission and the bot's reply.
func WithReplyDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.replyDelay = d
		}
	}
}

// WithTiming sets the typing pulse and picker fade parameters.
func WithTiming(t Timing) Option {
	return func(s *Session) {
		s.timing = t
	}
}

// WithFrameInterval sets the animation frame interval.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Session) {
		s.frame = d
	}
}

// WithListener registers fn to receive every session event.
func WithListener(fn func(Event)) Option {
	return func(s *Session) {
		s.listener = fn
	}
}

// WithLogger overrides the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// Session is one running chat. See the package doc for threading rules.
type Session struct {
	sched     scheduler.Scheduler
	anim      *motion.Animator
	ids       IDGenerator
	responder replies.Responder
	presenter Presenter
	listener  func(Event)
	log       *zap.Logger

	replyDelay  time.Duration
	timing      Timing
	frame       time.Duration
	reactionSet []Reaction
	allowed     map[Reaction]bool

	messages  []Message
	index     map[MessageID]int
	reactions map[MessageID][]ReactionCount
	draft     string
	typing    bool

	// One pending reply per submission, keyed by submission number.
	replies  map[uint64]scheduler.Handle
	replySeq uint64

	picker        Picker
	pickerOpacity *motion.Value
	fade          scheduler.Handle

	keyboard Keyboard

	dots     [3]*motion.Value
	dotLoops []scheduler.Handle

	closed bool
}

// New creates a session driven by sched.
func New(sched scheduler.Scheduler, opts ...Option) *Session {
	s := &Session{
		sched:       sched,
		ids:         NewUUIDGenerator(),
		responder:   replies.Default(),
		presenter:   nopPresenter{},
		log:         logging.Get(logging.CategorySession),
		replyDelay:  DefaultReplyDelay,
		timing:      DefaultTiming(),
		frame:       motion.DefaultFrameInterval,
		reactionSet: append([]Reaction(nil), DefaultReactions...),
		index:       make(map[MessageID]int),
		reactions:   make(map[MessageID][]ReactionCount),
		replies:     make(map[uint64]scheduler.Handle),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.allowed = make(map[Reaction]bool, len(s.reactionSet))
	for _, r := range s.reactionSet {
		s.allowed[r] = true
	}
	s.anim = motion.NewAnimator(sched,
		motion.WithFrameInterval(s.frame),
		motion.WithFrameHook(func() { s.emit(Event{Kind: EventFrame}) }),
	)
	s.pickerOpacity = motion.NewValue(0)
	for i := range s.dots {
		s.dots[i] = motion.NewValue(s.timing.RestOpacity)
	}
	return s
}

// Reactions returns the allowed reaction symbols in picker order.
func (s *Session) Reactions() []Reaction {
	return append([]Reaction(nil), s.reactionSet...)
}

// SetComposingText replaces the draft.
func (s *Session) SetComposingText(text string) {
	if s.closed {
		return
	}
	s.draft = text
}

// ComposingText returns the draft.
func (s *Session) ComposingText() string {
	return s.draft
}

// Submit appends a user message and schedules the bot's reply. Text that is
// empty after trimming is dropped and Submit reports false. The text is stored
// as typed.
func (s *Session) Submit(text string) (Message, bool) {
	if s.closed || strings.TrimSpace(text) == "" {
		return Message{}, false
	}

	msg := s.appendMessage(text, SenderUser)
	s.draft = ""

	s.replySeq++
	key := s.replySeq
	s.replies[key] = s.sched.ScheduleOnce(s.replyDelay, func() {
		s.deliverReply(key, text)
	})
	s.setTyping(true)

	s.log.Debug("message submitted",
		zap.String("id", string(msg.ID)),
		zap.Int("pending_replies", len(s.replies)),
	)
	return msg, true
}

// SubmitDraft submits the current draft.
func (s *Session) SubmitDraft() (Message, bool) {
	return s.Submit(s.draft)
}

// deliverReply runs on the reply timer for submission key.
func (s *Session) deliverReply(key uint64, text string) {
	if s.closed {
		return
	}
	if _, ok := s.replies[key]; !ok {
		return
	}
	delete(s.replies, key)

	reply := s.responder.Respond(text)
	msg := s.appendMessage(reply, SenderBot)
	if len(s.replies) == 0 {
		s.setTyping(false)
	}

	s.log.Debug("reply delivered", zap.String("id", string(msg.ID)))
}

func (s *Session) appendMessage(text string, from Sender) Message {
	msg := Message{
		ID:     s.ids.NewID(),
		Text:   text,
		Sender: from,
		SentAt: s.sched.Now(),
	}
	s.index[msg.ID] = len(s.messages)
	s.messages = append(s.messages, msg)
	s.emit(Event{Kind: EventMessageAppended, MessageID: msg.ID, Message: msg})
	s.presenter.ScrollToEnd()
	return msg
}

func (s *Session) setTyping(on bool) {
	if s.typing == on {
		return
	}
	s.typing = on
	if on {
		s.startPulse()
	} else {
		s.stopPulse()
	}
	s.emit(Event{Kind: EventTypingChanged, Typing: on})
	if on {
		s.presenter.ScrollToEnd()
	}
}

func (s *Session) startPulse() {
	t := s.timing
	for i, dot := range s.dots {
		steps := []motion.Step{
			motion.Delay(t.PulseStagger * time.Duration(i)),
			motion.To(t.PeakOpacity, t.PulseUp, motion.Linear),
			motion.To(t.RestOpacity, t.PulseDown, motion.Linear),
			motion.Delay(t.PulsePause),
		}
		h, err := s.anim.StartLoop(dot, steps)
		if err != nil {
			s.log.Warn("typing pulse not started", zap.Int("dot", i), zap.Error(err))
			continue
		}
		s.dotLoops = append(s.dotLoops, h)
	}
}

// stopPulse cancels the loops outright and parks every dot at rest.
func (s *Session) stopPulse() {
	for _, h := range s.dotLoops {
		h.Cancel()
	}
	s.dotLoops = nil
	for _, dot := range s.dots {
		dot.Set(s.timing.RestOpacity)
	}
}

// OpenReactionPicker toggles the picker for id. If it is already open (and
// not fading out) for id it closes; otherwise it opens for id, replacing any
// other picker at once.
func (s *Session) OpenReactionPicker(id MessageID) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.index[id]; !ok {
		return fmt.Errorf("open picker for %q: %w", id, ErrUnknownMessage)
	}
	if s.picker.OpenFor == id && !s.picker.Closing {
		s.closePicker()
		return nil
	}
	s.openPicker(id)
	return nil
}

// CloseReactionPicker fades out any open picker.
func (s *Session) CloseReactionPicker() {
	if s.closed {
		return
	}
	s.closePicker()
}

func (s *Session) openPicker(id MessageID) {
	s.cancelFade()
	if s.picker.OpenFor != id {
		s.pickerOpacity.Set(0)
	}
	s.picker = Picker{OpenFor: id}
	finished := false
	fade := s.anim.RunOnce(s.pickerOpacity,
		[]motion.Step{motion.To(1, s.timing.PickerFadeIn, motion.Out(motion.Ease))},
		func() { finished = true; s.fade = nil },
	)
	if !finished {
		s.fade = fade
	}
	s.log.Debug("picker opened", zap.String("id", string(id)))
	s.emit(Event{Kind: EventPickerChanged, MessageID: id, Picker: s.pickerSnapshot()})
}

// closePicker starts the fade-out. OpenFor is cleared by the fade's
// completion, which never runs if a newer fade replaced it.
func (s *Session) closePicker() {
	if !s.picker.IsOpen() || s.picker.Closing {
		return
	}
	s.cancelFade()
	id := s.picker.OpenFor
	s.picker.Closing = true
	finished := false
	fade := s.anim.RunOnce(s.pickerOpacity,
		[]motion.Step{motion.To(0, s.timing.PickerFadeOut, motion.In(motion.Ease))},
		func() {
			finished = true
			s.fade = nil
			s.picker = Picker{}
			s.pickerOpacity.Set(0)
			s.log.Debug("picker closed", zap.String("id", string(id)))
			s.emit(Event{Kind: EventPickerChanged, MessageID: id, Picker: s.pickerSnapshot()})
		},
	)
	// A zero-length fade has already closed the picker.
	if finished {
		return
	}
	s.fade = fade
	s.emit(Event{Kind: EventPickerChanged, MessageID: id, Picker: s.pickerSnapshot()})
}

func (s *Session) cancelFade() {
	if s.fade != nil {
		s.fade.Cancel()
		s.fade = nil
	}
}

func (s *Session) pickerSnapshot() Picker {
	p := s.picker
	p.Opacity = s.pickerOpacity.Get()
	return p
}

// ApplyReaction adds one symbol to message id and closes the picker.
func (s *Session) ApplyReaction(id MessageID, symbol Reaction) error {
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.index[id]; !ok {
		return fmt.Errorf("react to %q: %w", id, ErrUnknownMessage)
	}
	if !s.allowed[symbol] {
		return fmt.Errorf("react with %q: %w", symbol, ErrUnknownReaction)
	}

	counts := s.reactions[id]
	n := 0
	for i := range counts {
		if counts[i].Symbol == symbol {
			counts[i].Count++
			n = counts[i].Count
			break
		}
	}
	if n == 0 {
		counts = append(counts, ReactionCount{Symbol: symbol, Count: 1})
		n = 1
	}
	s.reactions[id] = counts

	s.emit(Event{Kind: EventReactionApplied, MessageID: id, Reaction: symbol, Count: n})
	s.closePicker()
	return nil
}

// SetKeyboardVisibility records the keyboard state. Showing the keyboard
// scrolls to the end; hiding it resets the height to 0.
func (s *Session) SetKeyboardVisibility(visible bool, height int) {
	if s.closed {
		return
	}
	if height < 0 {
		height = 0
	}
	if visible {
		s.keyboard = Keyboard{Visible: true, Height: height}
	} else {
		s.keyboard = Keyboard{}
	}
	s.emit(Event{Kind: EventKeyboardChanged, Keyboard: s.keyboard})
	if visible {
		s.presenter.ScrollToEnd()
	}
}

// SetResponder swaps the reply selector. Replies already scheduled use the
// new responder when they fire.
func (s *Session) SetResponder(r replies.Responder) {
	if r == nil || s.closed {
		return
	}
	s.responder = r
}

// SetReplyDelay changes the delay for later submissions. Replies already
// scheduled keep their original due time.
func (s *Session) SetReplyDelay(d time.Duration) {
	if d < 0 || s.closed {
		return
	}
	s.replyDelay = d
}

// PendingReplies returns the number of replies not yet delivered.
func (s *Session) PendingReplies() int {
	return len(s.replies)
}

// Close tears the session down. Pending replies, the typing pulse and any
// picker fade are cancelled, and later calls are no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	for key, h := range s.replies {
		h.Cancel()
		delete(s.replies, key)
	}
	s.cancelFade()
	s.stopPulse()
	s.typing = false
	s.log.Debug("session closed", zap.Int("messages", len(s.messages)))
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.closed
}

// State returns a deep copy of the session state.
func (s *Session) State() State {
	st := State{
		Messages:      append([]Message(nil), s.messages...),
		Reactions:     make(map[MessageID][]ReactionCount, len(s.reactions)),
		ComposingText: s.draft,
		BotTyping:     s.typing,
		Picker:        s.pickerSnapshot(),
		Keyboard:      s.keyboard,
	}
	for id, counts := range s.reactions {
		st.Reactions[id] = append([]ReactionCount(nil), counts...)
	}
	for i, dot := range s.dots {
		st.TypingDots[i] = dot.Get()
	}
	return st
}

func (s *Session) emit(ev Event) {
	if s.listener != nil {
		s.listener(ev)
	}
}
