package events

import "github.com/atomicstack/tmux-popup-tree/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

type WatchTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
	Watch   = WatchTracer{}
)

func (UITracer) RowEnter(depth, row int, path string) {
	logging.Trace("row.enter", map[string]interface{}{"depth": depth, "row": row, "path": path})
}

func (UITracer) RowLeave(depth, row int, path string) {
	logging.Trace("row.leave", map[string]interface{}{"depth": depth, "row": row, "path": path})
}

func (UITracer) KeyCursor(depth, row int) {
	logging.Trace("key.cursor", map[string]interface{}{"depth": depth, "row": row})
}

func (UITracer) Selection(depth int, selected []string) {
	logging.Trace("row.selection", map[string]interface{}{"depth": depth, "selected": selected})
}

func (UITracer) ContextMenu(path string) {
	logging.Trace("row.context", map[string]interface{}{"path": path})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

func (FilterTracer) Cleared(depth int) {
	logging.Trace("filter.clear", map[string]interface{}{"depth": depth})
}

func (FilterTracer) Append(depth int, filter string) {
	logging.Trace("filter.append", map[string]interface{}{"depth": depth, "filter": filter})
}

func (FilterTracer) Backspace(depth int, filter string) {
	logging.Trace("filter.backspace", map[string]interface{}{"depth": depth, "filter": filter})
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) NoOp(id, label string) {
	logging.Trace("command.noop", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}

func (WatchTracer) Change(root string, paths []string) {
	logging.Trace("watch.change", map[string]interface{}{"root": root, "paths": paths})
}

func (WatchTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("watch.error", map[string]interface{}{"error": err.Error()})
}
