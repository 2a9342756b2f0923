package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"randomframe/internal/captions"
	"randomframe/internal/selector"
	"randomframe/internal/source"
	"randomframe/pkg/models"
)

// Renderer receives the results of dispatched events. A browser page, the
// display hub or a test recorder can all sit behind it.
type Renderer interface {
	RenderSelection(models.Selection)
	RenderFolder(st selector.State, eligible []string)
	RenderError(folder string, err error)
}

// Event is something the UI asks the widget to do.
type Event interface {
	eventName() string
}

// SelectFolder switches the current folder. Choice may be selector.RandomFolder.
type SelectFolder struct {
	Choice string
}

// Generate draws a new image and caption from the current folder.
type Generate struct{}

func (SelectFolder) eventName() string { return "select_folder" }
func (Generate) eventName() string     { return "generate" }

// Outcome is what a dispatched event produced.
type Outcome struct {
	State     selector.State
	Selection *models.Selection
}

// Widget owns the selection state and turns events into state changes
// followed by a render step.
type Widget struct {
	mu    sync.Mutex
	state selector.State

	catalog   source.Catalog
	captions  captions.Set
	rng       *lockedRand
	renderers []Renderer
	logger    *zap.Logger
}

type Options struct {
	Catalog       source.Catalog
	Captions      captions.Set
	InitialFolder string
	Rand          selector.Rand // defaults to selector.DefaultRand
	Renderers     []Renderer
	Logger        *zap.Logger
}

func New(opts Options) *Widget {
	rng := opts.Rand
	if rng == nil {
		rng = selector.DefaultRand
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Widget{
		state:     selector.State{CurrentFolder: opts.InitialFolder},
		catalog:   opts.Catalog,
		captions:  opts.Captions,
		rng:       &lockedRand{r: rng},
		renderers: opts.Renderers,
		logger:    logger,
	}
}

// State returns a copy of the current selection state.
func (w *Widget) State() selector.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Widget) Folders() []string  { return w.catalog.Folders() }
func (w *Widget) Eligible() []string { return w.catalog.Eligible() }

// Dispatch applies ev and renders the result. Errors are rendered as well as returned.
func (w *Widget) Dispatch(ctx context.Context, ev Event) (Outcome, error) {
	switch e := ev.(type) {
	case SelectFolder:
		return w.selectFolder(e.Choice)
	case Generate:
		return w.generate(ctx)
	default:
		return Outcome{State: w.State()}, fmt.Errorf("unknown event %T", ev)
	}
}

func (w *Widget) selectFolder(choice string) (Outcome, error) {
	eligible := w.catalog.Eligible()

	w.mu.Lock()
	next, err := selector.SelectFolder(w.state, choice, eligible, w.rng)
	if err == nil {
		w.state = next
	}
	st := w.state
	w.mu.Unlock()

	if err != nil {
		w.logger.Info("folder selection failed", zap.String("choice", choice), zap.Error(err))
		w.renderError(st.CurrentFolder, err)
		return Outcome{State: st}, err
	}

	w.logger.Debug("folder selected", zap.String("choice", choice), zap.String("folder", st.CurrentFolder))
	for _, r := range w.renderers {
		r.RenderFolder(st, eligible)
	}
	return Outcome{State: st}, nil
}

// generate works on a snapshot so slow resolvers do not block folder changes.
func (w *Widget) generate(ctx context.Context) (Outcome, error) {
	st := w.State()

	sel, err := selector.Generate(ctx, st, w.catalog, w.captions, w.rng)
	if err != nil {
		if errors.Is(err, selector.ErrNoImagesInFolder) {
			w.logger.Info("generate found no images", zap.String("folder", st.CurrentFolder))
		} else {
			w.logger.Error("generate failed", zap.String("folder", st.CurrentFolder), zap.Error(err))
		}
		w.renderError(st.CurrentFolder, err)
		return Outcome{State: st}, err
	}

	w.logger.Debug("generated", zap.String("image", sel.ImageURL))
	for _, r := range w.renderers {
		r.RenderSelection(sel)
	}
	return Outcome{State: st, Selection: &sel}, nil
}

func (w *Widget) renderError(folder string, err error) {
	for _, r := range w.renderers {
		r.RenderError(folder, err)
	}
}

type lockedRand struct {
	mu sync.Mutex
	r  selector.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
