package events

import "github.com/atomicstack/tmux-popup-tree/internal/logging"

type TreeTracer struct{}

type LoadTracer struct{}

type LevelTracer struct{}

var (
	Tree  = TreeTracer{}
	Load  = LoadTracer{}
	Level = LevelTracer{}
)

func (TreeTracer) Toggle(byClick bool, state string) {
	logging.Trace("tree.toggle", map[string]interface{}{"click": byClick, "state": state})
}

func (TreeTracer) Swallowed(sinceMillis int64) {
	logging.Trace("tree.toggle.swallow", map[string]interface{}{"since_ms": sinceMillis})
}

func (TreeTracer) State(from, to string) {
	logging.Trace("tree.state", map[string]interface{}{"from": from, "to": to})
}

func (TreeTracer) Active(active bool) {
	logging.Trace("tree.active", map[string]interface{}{"active": active})
}

func (TreeTracer) FadeOut(reason string) {
	logging.Trace("tree.fadeout", map[string]interface{}{"reason": reason})
}

func (TreeTracer) Transparent(levels int) {
	logging.Trace("tree.transparent", map[string]interface{}{"levels": levels})
}

func (LoadTracer) Start(path string, depth int, gen uint64) {
	logging.Trace("load.start", map[string]interface{}{"path": path, "depth": depth, "gen": gen})
}

func (LoadTracer) Restart(path string, depth int) {
	logging.Trace("load.restart", map[string]interface{}{"path": path, "depth": depth})
}

func (LoadTracer) Cancel(path string) {
	logging.Trace("load.cancel", map[string]interface{}{"path": path})
}

func (LoadTracer) Deliver(path string, depth int, validity string, entries int) {
	logging.Trace("load.deliver", map[string]interface{}{
		"path":     path,
		"depth":    depth,
		"validity": validity,
		"entries":  entries,
	})
}

func (LoadTracer) Discard(path string, reason string) {
	logging.Trace("load.discard", map[string]interface{}{"path": path, "reason": reason})
}

func (LevelTracer) Open(depth int, path string, rows int) {
	logging.Trace("level.open", map[string]interface{}{"depth": depth, "path": path, "rows": rows})
}

func (LevelTracer) Close(depth int, path string) {
	logging.Trace("level.close", map[string]interface{}{"depth": depth, "path": path})
}

func (LevelTracer) CloseSoon(depth int, path string) {
	logging.Trace("level.close-soon", map[string]interface{}{"depth": depth, "path": path})
}

func (LevelTracer) Dispose(depth int, path string) {
	logging.Trace("level.dispose", map[string]interface{}{"depth": depth, "path": path})
}

func (LevelTracer) Layout(positions []map[string]int) {
	logging.Trace("level.layout", map[string]interface{}{"levels": positions})
}

func (LevelTracer) Refresh(depth int, path string, rows, dropped int) {
	logging.Trace("level.refresh", map[string]interface{}{"depth": depth, "path": path, "rows": rows, "dropped": dropped})
}
