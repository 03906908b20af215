package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/danmuck/arplace/internal/placement"
	"github.com/rs/zerolog/log"
)

// console serializes writes from the frame loop and from lifecycle
// goroutines that report failures.
type console struct {
	mu  sync.Mutex
	out io.Writer
}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// consoleRenderer prints reticle and scene changes instead of drawing.
type consoleRenderer struct {
	c *console

	mu          sync.Mutex
	frames      int
	lastVisible bool
}

func (r *consoleRenderer) FrameReady(view placement.FrameView) {
	r.mu.Lock()
	r.frames++
	changed := view.ReticleVisible != r.lastVisible
	r.lastVisible = view.ReticleVisible
	r.mu.Unlock()

	log.Debug().
		Dur("t", view.Time).
		Bool("reticle", view.ReticleVisible).
		Bool("placed", view.Placed).
		Msg("arplacectl.consoleRenderer.FrameReady")
	if !changed {
		return
	}
	if view.ReticleVisible {
		r.c.printf("[%8s] reticle  %s\n", view.Time, view.ReticlePose)
	} else {
		r.c.printf("[%8s] reticle  hidden\n", view.Time)
	}
}

func (r *consoleRenderer) AddToScene(inst placement.PlacedInstance) {
	r.c.printf("           scene    + %s\n", inst.Name)
}

func (r *consoleRenderer) RemoveFromScene(inst placement.PlacedInstance) {
	r.c.printf("           scene    - %s\n", inst.Name)
}

func (r *consoleRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

type consoleUI struct {
	c *console
}

func (u consoleUI) SessionStarted(id string) {
	u.c.printf("session %s started: tap to place\n", id)
}

func (u consoleUI) SessionEnded(id string) {
	u.c.printf("session %s ended\n", id)
}

func (u consoleUI) SessionFailed(err error) {
	u.c.printf("session failed: %v\n", err)
}
