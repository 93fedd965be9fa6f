package moderation

import (
	"context"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/kindwatch/wardenbot/internal/observability"
)

// Message is one inbound text message, already filtered by the platform
// layer: non-text content and commands never reach the pipeline.
type Message struct {
	Text     string
	SenderID int64
	ChatID   int64
}

type Tracker interface {
	Record(userID int64) int
}

// Notifier delivers the escalation intents through the chat platform.
// Both sends are fire-and-forget, a failed one must not block the other.
type Notifier interface {
	SendWarning(ctx context.Context, warning PrivateWarning) error
	AlertAdmins(ctx context.Context, alert AdminAlert) error
}

type Pipeline struct {
	classifier Classifier
	tracker    Tracker
	policy     EscalationPolicy
	notifier   Notifier

	classifyTimeout time.Duration
	notifyTimeout   time.Duration

	logger *log.Entry
}

func NewPipeline(classifier Classifier, tracker Tracker, policy EscalationPolicy, notifier Notifier, classifyTimeout, notifyTimeout time.Duration, logger *log.Entry) *Pipeline {
	if classifyTimeout <= 0 {
		classifyTimeout = 5 * time.Second
	}
	if notifyTimeout <= 0 {
		notifyTimeout = 5 * time.Second
	}
	return &Pipeline{
		classifier:      classifier,
		tracker:         tracker,
		policy:          policy,
		notifier:        notifier,
		classifyTimeout: classifyTimeout,
		notifyTimeout:   notifyTimeout,
		logger:          logger,
	}
}

// HandleMessage runs one message end to end: classify, record, decide,
// dispatch. It never returns an error: every failure mode maps to a logged
// continuation so one bad message cannot stall the update loop.
func (p *Pipeline) HandleMessage(ctx context.Context, msg Message) {
	ctx, span := otel.Tracer("moderation").Start(ctx, "handle-message")
	defer span.End()

	entry := p.logger.WithFields(log.Fields{
		"correlation_id": uuid.New(),
		"chat_id":        msg.ChatID,
		"user_id":        msg.SenderID,
	})

	done := observability.StartClassification()
	verdict, err := p.classify(ctx, msg.Text)
	if err != nil {
		done("failed")
		if errors.Is(err, ErrUnavailable) {
			// fail open: chat availability beats moderation coverage
			observability.RecordClassifierFailure("unavailable")
			entry.WithField("error", err.Error()).Error("classifier unavailable, failing open")
			return
		}
		observability.RecordClassifierFailure("internal")
		entry.WithField("error", err.Error()).Error("classification failed")
		return
	}
	done("completed")

	if verdict.Source == VerdictSourceHeuristic {
		observability.RecordClassifierFailure("malformed_response")
	}
	if !verdict.Offensive {
		observability.RecordVerdict("benign")
		return
	}
	observability.RecordVerdict("offensive")

	count := p.tracker.Record(msg.SenderID)
	decision := p.policy.Decide(msg.ChatID, msg.SenderID, count, verdict.Explanation)
	entry = entry.WithField("warning_count", count)
	entry.Info("offense recorded")

	p.dispatch(ctx, entry, decision)
}

func (p *Pipeline) classify(ctx context.Context, text string) (Verdict, error) {
	cctx, cancel := context.WithTimeout(ctx, p.classifyTimeout)
	defer cancel()
	return p.classifier.Analyze(cctx, text)
}

func (p *Pipeline) dispatch(ctx context.Context, entry *log.Entry, decision Decision) {
	wctx, cancel := context.WithTimeout(ctx, p.notifyTimeout)
	if err := p.notifier.SendWarning(wctx, decision.Warning); err != nil {
		entry.WithField("error", err.Error()).Error("failed to send private warning")
	} else {
		observability.RecordWarning()
	}
	cancel()

	if decision.Alert == nil {
		return
	}
	actx, cancel := context.WithTimeout(ctx, p.notifyTimeout)
	defer cancel()
	if err := p.notifier.AlertAdmins(actx, *decision.Alert); err != nil {
		entry.WithField("error", err.Error()).Error("failed to alert admins")
		return
	}
	observability.RecordAdminAlert()
}
