package analysis

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/RyanBlaney/sonido-workbench/algorithms/axis"
	"github.com/RyanBlaney/sonido-workbench/algorithms/common"
	"github.com/RyanBlaney/sonido-workbench/algorithms/filters"
	"github.com/RyanBlaney/sonido-workbench/algorithms/spectral"
	"github.com/RyanBlaney/sonido-workbench/algorithms/synthesis"
	"github.com/RyanBlaney/sonido-workbench/algorithms/windowing"
	"github.com/RyanBlaney/sonido-workbench/logging"
)

// ErrNotAvailable is returned by accessors when the session state does not
// hold the requested arrays
var ErrNotAvailable = errors.New("results not available")

// State is the lifecycle stage of a Session
type State int

const (
	Empty State = iota
	Configured
	Computed
	Filtered
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Configured:
		return "configured"
	case Computed:
		return "computed"
	case Filtered:
		return "filtered"
	default:
		return fmt.Sprintf("analysis.State(%d)", int(s))
	}
}

// Source is where the analysed data comes from
type Source int

const (
	SourceSynthesized Source = iota
	SourceAudioFile
	SourceImage
	SourceGratings
)

func (s Source) String() string {
	switch s {
	case SourceSynthesized:
		return "synthesized"
	case SourceAudioFile:
		return "audio_file"
	case SourceImage:
		return "image"
	case SourceGratings:
		return "gratings"
	default:
		return fmt.Sprintf("analysis.Source(%d)", int(s))
	}
}

// Is2D reports whether the source produces images rather than 1-D samples
func (s Source) Is2D() bool {
	return s == SourceImage || s == SourceGratings
}

// Session owns the parameters of one analysis and the arrays derived from
// them. Every successful mutation discards derived arrays, so nothing stale
// is ever served. A Session is not safe for concurrent use.
type Session struct {
	logger    logging.Logger
	engine    *spectral.Engine
	window    windowing.Type
	imageSize int

	source   Source
	state    State
	sampling *axis.Sampling
	signals  *synthesis.Collection
	gratings []*synthesis.Grating

	audio     []float64
	audioRate float64
	image     *mat.Dense

	wave       *Wave
	taper      *windowing.Window
	image2D    *mat.Dense
	pairs      map[spectral.Domain]*TransformPair
	filtered   map[spectral.Domain]*TransformPair
	pairs2D    map[spectral.Domain]*TransformPair2D
	filtered2D map[spectral.Domain]*TransformPair2D
}

// NewSession creates an empty session in synthesized mode
func NewSession(opts ...Option) *Session {
	s := &Session{
		window:    windowing.Rectangular,
		imageSize: DefaultImageSize,
		source:    SourceSynthesized,
		state:     Empty,
		signals:   synthesis.NewCollection(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = logging.WithFields(logging.Fields{
			"component": "analysis_session",
		})
	}
	s.engine = spectral.NewEngine(s.logger.WithFields(logging.Fields{
		"component": "transform_engine",
	}))
	return s
}

// State returns the lifecycle stage
func (s *Session) State() State {
	return s.state
}

// Source returns the active input mode
func (s *Session) Source() Source {
	return s.source
}

// Sampling returns the sampling parameters, if set
func (s *Session) Sampling() (axis.Sampling, bool) {
	if s.sampling == nil {
		return axis.Sampling{}, false
	}
	return *s.sampling, true
}

// Signals returns the ordered signal list
func (s *Session) Signals() []*synthesis.Sine {
	return s.signals.Signals()
}

// Labels returns one formula label per signal, in order
func (s *Session) Labels() []string {
	return s.signals.Labels()
}

// Gratings returns the synthesized 2-D components
func (s *Session) Gratings() []*synthesis.Grating {
	out := make([]*synthesis.Grating, len(s.gratings))
	copy(out, s.gratings)
	return out
}

// SetSampling stores new sampling parameters. Values are checked by
// Compute, so an invalid spec leaves the session Configured but unable to
// compute.
func (s *Session) SetSampling(sampling axis.Sampling) {
	s.sampling = &sampling
	s.invalidate("sampling changed")
}

// AddSignal appends a sinusoid to the signal list
func (s *Session) AddSignal(signal *synthesis.Sine) error {
	if err := s.signals.Add(signal); err != nil {
		return s.reject("add signal", err)
	}
	s.invalidate("signal added")
	return nil
}

// UpdateSignal edits the signal at the 1-based index in place
func (s *Session) UpdateSignal(index int, amplitude, frequency, phase float64) error {
	if err := s.signals.Update(index, amplitude, frequency, phase); err != nil {
		return s.reject("update signal", err)
	}
	s.invalidate("signal updated")
	return nil
}

// DeleteSignal removes the signal at the 1-based index
func (s *Session) DeleteSignal(index int) error {
	if err := s.signals.Delete(index); err != nil {
		return s.reject("delete signal", err)
	}
	s.invalidate("signal deleted")
	return nil
}

// UseSynthesized switches back to the signal list as input
func (s *Session) UseSynthesized() {
	s.switchSource(SourceSynthesized)
}

// UseGratings switches to synthesized 2-D gratings as input
func (s *Session) UseGratings() {
	s.switchSource(SourceGratings)
}

// AddGrating appends a 2-D grating and switches to grating input
func (s *Session) AddGrating(g *synthesis.Grating) error {
	if g == nil {
		return s.reject("add grating", common.NewValidationError("add grating", "grating is nil"))
	}
	if err := g.Validate(); err != nil {
		return s.reject("add grating", err)
	}
	s.gratings = append(s.gratings, g)
	s.switchSource(SourceGratings)
	return nil
}

// LoadAudio replaces the input with decoded audio samples
func (s *Session) LoadAudio(samples []float64, sampleRate float64) error {
	if len(samples) == 0 {
		return s.reject("load audio", common.NewValidationError("load audio", "no samples"))
	}
	if !common.IsFinite(sampleRate) || sampleRate <= 0 {
		return s.reject("load audio", common.NewValidationError("load audio", "sample rate must be positive and finite, got %g", sampleRate))
	}
	if !common.AllFinite(samples) {
		return s.reject("load audio", common.NewValidationError("load audio", "samples contain NaN or Inf"))
	}

	s.audio = make([]float64, len(samples))
	copy(s.audio, samples)
	s.audioRate = sampleRate
	s.switchSource(SourceAudioFile)
	return nil
}

// LoadImage replaces the input with a grayscale image
func (s *Session) LoadImage(image mat.Matrix) error {
	if common.IsNilMatrix(image) {
		return s.reject("load image", common.NewValidationError("load image", "image is nil"))
	}
	rows, cols := image.Dims()
	if rows == 0 || cols == 0 {
		return s.reject("load image", common.NewValidationError("load image", "image is empty"))
	}

	s.image = mat.DenseCopyOf(image)
	s.switchSource(SourceImage)
	return nil
}

func (s *Session) switchSource(src Source) {
	if s.source != src {
		s.logger.Debug("source switched", logging.Fields{
			"from": s.source.String(),
			"to":   src.String(),
		})
	}
	s.source = src
	s.invalidate("source changed")
}

// invalidate drops every derived array and recomputes the state from the
// configured inputs
func (s *Session) invalidate(reason string) {
	s.wave = nil
	s.taper = nil
	s.image2D = nil
	s.pairs = nil
	s.filtered = nil
	s.pairs2D = nil
	s.filtered2D = nil

	if s.configured() {
		s.state = Configured
	} else {
		s.state = Empty
	}

	s.logger.Debug("derived arrays invalidated", logging.Fields{
		"reason": reason,
		"state":  s.state.String(),
	})
}

func (s *Session) configured() bool {
	switch s.source {
	case SourceSynthesized:
		return s.sampling != nil
	case SourceAudioFile:
		return s.audio != nil
	case SourceImage:
		return s.image != nil
	case SourceGratings:
		return len(s.gratings) > 0
	default:
		return false
	}
}

func (s *Session) reject(op string, err error) error {
	s.logger.Warn("request rejected", logging.Fields{
		"op":    op,
		"kind":  common.KindOf(err).String(),
		"error": err.Error(),
	})
	return err
}

// Compute builds the wave and both transform pairs of the active source.
// Nothing is stored unless every step succeeds.
func (s *Session) Compute() error {
	if s.state == Empty {
		return s.reject("compute", common.NewValidationError("compute", "nothing configured for %s input", s.source))
	}

	var err error
	if s.source.Is2D() {
		err = s.compute2D()
	} else {
		err = s.compute1D()
	}
	if err != nil {
		return s.reject("compute", err)
	}

	s.state = Computed
	s.logger.Debug("session computed", logging.Fields{
		"source": s.source.String(),
	})
	return nil
}

func (s *Session) compute1D() error {
	var wave *Wave
	switch s.source {
	case SourceSynthesized:
		var err error
		wave, err = ComputeWave(*s.sampling, s.signals.Signals())
		if err != nil {
			return err
		}
	case SourceAudioFile:
		discrete, err := axis.DiscreteTimeAxis(len(s.audio), s.audioRate)
		if err != nil {
			return err
		}
		wave = &Wave{
			ContinuousAxis: discrete,
			Wave:           s.audio,
			DiscreteAxis:   discrete,
			Samples:        s.audio,
			SampleRate:     s.audioRate,
		}
	}

	taper, err := windowing.NewWindow(s.window, len(wave.Samples), false)
	if err != nil {
		return err
	}
	samples, err := taper.Apply(wave.Samples)
	if err != nil {
		return err
	}

	pairs := make(map[spectral.Domain]*TransformPair, 2)
	for _, domain := range spectral.Domains() {
		pair, err := computeTransformPair(s.engine, domain, samples, wave.SampleRate)
		if err != nil {
			return err
		}
		pairs[domain] = pair
	}

	if spectral.IsZero(wave.Samples, 0) {
		s.logger.Warn("signal is all zeros, nothing to show", logging.Fields{
			"samples": len(wave.Samples),
		})
	}

	s.wave = wave
	s.taper = taper
	s.pairs = pairs
	s.filtered = nil
	return nil
}

func (s *Session) compute2D() error {
	image := s.image
	if s.source == SourceGratings {
		var err error
		image, err = synthesis.SynthesizeGratings(s.gratings, s.imageSize)
		if err != nil {
			return err
		}
	}

	pairs := make(map[spectral.Domain]*TransformPair2D, 2)
	for _, domain := range spectral.Domains() {
		pair, err := compute2DTransformPair(s.engine, domain, image)
		if err != nil {
			return err
		}
		pairs[domain] = pair
	}

	s.image2D = image
	s.pairs2D = pairs
	s.filtered2D = nil
	return nil
}

// ApplyFilter filters the 1-D forward result of the domain and inverts it.
// Unfiltered results stay available.
func (s *Session) ApplyFilter(domain spectral.Domain, spec filters.Spec) error {
	pair, err := s.Pair(domain)
	if err != nil {
		return s.reject("apply filter", err)
	}

	forward, err := ApplyFilter(domain, pair.Forward, pair.FrequencyAxis, spec)
	if err != nil {
		return s.reject("apply filter", err)
	}
	inverse, err := s.engine.Inverse(forward)
	if err != nil {
		return s.reject("apply filter", err)
	}

	if s.filtered == nil {
		s.filtered = make(map[spectral.Domain]*TransformPair, 2)
	}
	s.filtered[domain] = &TransformPair{
		Domain:        domain,
		Input:         pair.Input,
		Forward:       forward,
		Inverse:       inverse,
		FrequencyAxis: pair.FrequencyAxis,
	}
	s.state = Filtered

	s.logger.Debug("filter applied", logging.Fields{
		"domain": domain.String(),
		"filter": spec.Kind.String(),
	})
	return nil
}

// ApplyFilter2D filters the 2-D forward result of the domain and inverts it
func (s *Session) ApplyFilter2D(domain spectral.Domain, spec filters.Spec2D) error {
	pair, err := s.Pair2D(domain)
	if err != nil {
		return s.reject("apply 2-D filter", err)
	}

	forward, err := Apply2DFilter(domain, pair.Forward, spec)
	if err != nil {
		return s.reject("apply 2-D filter", err)
	}
	inverse, err := s.engine.Inverse2D(forward)
	if err != nil {
		return s.reject("apply 2-D filter", err)
	}

	if s.filtered2D == nil {
		s.filtered2D = make(map[spectral.Domain]*TransformPair2D, 2)
	}
	s.filtered2D[domain] = &TransformPair2D{
		Domain:  domain,
		Input:   pair.Input,
		Forward: forward,
		Inverse: inverse,
	}
	s.state = Filtered

	s.logger.Debug("2-D filter applied", logging.Fields{
		"domain": domain.String(),
		"filter": spec.Kind.String(),
	})
	return nil
}

// ResetFilters drops filtered results and returns to Computed
func (s *Session) ResetFilters() {
	s.filtered = nil
	s.filtered2D = nil
	if s.state == Filtered {
		s.state = Computed
	}
}

// Wave returns the synthesized or loaded 1-D signal
func (s *Session) Wave() (*Wave, error) {
	if s.wave == nil {
		return nil, s.unavailable("wave")
	}
	return s.wave, nil
}

// Window returns the taper applied to the samples before the 1-D transforms
func (s *Session) Window() (*windowing.Window, error) {
	if s.taper == nil {
		return nil, s.unavailable("window")
	}
	return s.taper, nil
}

// Image returns the analysed 2-D input
func (s *Session) Image() (*mat.Dense, error) {
	if s.image2D == nil {
		return nil, s.unavailable("image")
	}
	return s.image2D, nil
}

// Pair returns the unfiltered 1-D transform pair of the domain
func (s *Session) Pair(domain spectral.Domain) (*TransformPair, error) {
	pair, ok := s.pairs[domain]
	if !ok {
		return nil, s.unavailable(domain.String() + " transform")
	}
	return pair, nil
}

// Filtered returns the filtered 1-D transform pair of the domain
func (s *Session) Filtered(domain spectral.Domain) (*TransformPair, error) {
	pair, ok := s.filtered[domain]
	if !ok {
		return nil, s.unavailable("filtered " + domain.String() + " transform")
	}
	return pair, nil
}

// Pair2D returns the unfiltered 2-D transform pair of the domain
func (s *Session) Pair2D(domain spectral.Domain) (*TransformPair2D, error) {
	pair, ok := s.pairs2D[domain]
	if !ok {
		return nil, s.unavailable(domain.String() + " 2-D transform")
	}
	return pair, nil
}

// Filtered2D returns the filtered 2-D transform pair of the domain
func (s *Session) Filtered2D(domain spectral.Domain) (*TransformPair2D, error) {
	pair, ok := s.filtered2D[domain]
	if !ok {
		return nil, s.unavailable("filtered " + domain.String() + " 2-D transform")
	}
	return pair, nil
}

func (s *Session) unavailable(what string) error {
	return fmt.Errorf("%w: no %s in %s state for %s input", ErrNotAvailable, what, s.state, s.source)
}
