package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/linebreak/pkg/knuth"
)

// logObserver traces a breaking run at debug level.
type logObserver struct {
	logger   *log.Logger
	created  int
	restarts int
}

func newLogObserver(logger *log.Logger) *logObserver {
	return &logObserver{logger: logger}
}

func (o *logObserver) OnStart(seq *knuth.Sequence, start *knuth.Node) {
	o.created, o.restarts = 0, 0
	o.logger.Debug("search started", "elements", seq.Len(), "start", start.Position)
}

func (o *logObserver) OnNodeCreated(*knuth.Node) { o.created++ }

func (o *logObserver) OnNodeDeactivated(*knuth.Node) {}

func (o *logObserver) OnRestart(n *knuth.Node, reason knuth.RestartReason) {
	o.restarts++
	o.logger.Debug("search restarted", "reason", reason, "position", n.Position, "line", n.Line)
}

func (o *logObserver) OnFinish(selected []*knuth.Node) {
	if len(selected) == 0 {
		o.logger.Debug("search found no solution", "nodes", o.created, "restarts", o.restarts)
		return
	}
	best := selected[len(selected)-1]
	o.logger.Debug("search finished",
		"lines", best.Line,
		"demerits", best.TotalDemerits,
		"nodes", o.created,
		"restarts", o.restarts)
}
