// Package flow coordinates the full diagnostic journey: phase-1
// questionnaire, tie-break, refined phase-2 assessment, action protocol and
// the temporally gated reevaluation/new-cycle paths. It owns the in-memory
// session state and talks to persistence only through the store repo
// interfaces, so tests drive it with in-memory fakes.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cortexdiag/cortex/internal/blueprint"
	"github.com/cortexdiag/cortex/internal/checkpoint"
	"github.com/cortexdiag/cortex/internal/logger"
	"github.com/cortexdiag/cortex/internal/pillar"
	"github.com/cortexdiag/cortex/internal/protocol"
	"github.com/cortexdiag/cortex/internal/scoring"
	"github.com/cortexdiag/cortex/internal/store"
	"github.com/cortexdiag/cortex/internal/temporal"
)

var (
	// ErrSaveInFlight is returned when a mutation arrives while a previous
	// one is still being persisted. The caller retries after the first
	// save settles; the engine never queues.
	ErrSaveInFlight = errors.New("aguarde o salvamento anterior terminar")

	// ErrNotInitialized is returned when a mutation runs before Initialize.
	ErrNotInitialized = errors.New("sessão não inicializada")

	// ErrWrongStage is returned when an operation does not apply to the
	// current stage.
	ErrWrongStage = errors.New("operação não disponível nesta etapa")

	// ErrInvalidAnswer is returned for out-of-range scores or unknown
	// question coordinates.
	ErrInvalidAnswer = errors.New("resposta inválida")

	// ErrTieUnresolved is returned when a tie-break submission leaves one
	// of the sides still unresolved.
	ErrTieUnresolved = errors.New("selecione um pilar entre os empatados")

	// ErrReflectionsIncomplete is returned when any reflection prompt is
	// empty after trimming.
	ErrReflectionsIncomplete = errors.New("responda todas as reflexões antes de continuar")

	// ErrReevalLocked is returned when the refined reevaluation is
	// requested before its 45-day window opens.
	ErrReevalLocked = errors.New("a reavaliação ainda não está liberada")

	// ErrProtocolUnavailable is returned when the protocol is requested in
	// reevaluation mode, where only the 90-day new-cycle path remains.
	ErrProtocolUnavailable = errors.New("o protocolo não está disponível nesta fase do ciclo")
)

// Flow is the stateful session coordinator for one user+niche pair.
type Flow struct {
	cycles      store.CycleRepo
	responses   store.ResponseRepo
	protocols   store.ProtocolRepo
	checkpoints *checkpoint.Store
	bp          *blueprint.Blueprint
	log         *logger.Logger
	now         func() time.Time

	userID  string
	nicheID string

	mu     sync.Mutex
	saving bool

	cycle        *store.DiagnosticCycle
	phase1       map[string]int
	phase2       map[string]int
	reflections  []string
	prot         *store.ProtocolProgress
	reevaluation bool
	stage        Stage
}

// Config wires a Flow's collaborators. Clock and Logger default to
// time.Now and a no-op logger.
type Config struct {
	Cycles      store.CycleRepo
	Responses   store.ResponseRepo
	Protocols   store.ProtocolRepo
	Checkpoints *checkpoint.Store
	Blueprint   *blueprint.Blueprint
	Logger      *logger.Logger
	Clock       func() time.Time
	UserID      string
	NicheID     string
}

func New(cfg Config) *Flow {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Blueprint == nil {
		cfg.Blueprint = blueprint.Default()
	}
	return &Flow{
		cycles:      cfg.Cycles,
		responses:   cfg.Responses,
		protocols:   cfg.Protocols,
		checkpoints: cfg.Checkpoints,
		bp:          cfg.Blueprint,
		log:         cfg.Logger.With("component", "flow", "user_id", cfg.UserID, "niche_id", cfg.NicheID),
		now:         cfg.Clock,
		userID:      cfg.UserID,
		nicheID:     cfg.NicheID,
		phase1:      map[string]int{},
		phase2:      map[string]int{},
	}
}

// Stage returns the current stage.
func (f *Flow) Stage() Stage { return f.stage }

// Saving reports whether a mutation is currently being persisted. A caller
// rendering inputs disables them while this is true instead of waiting to
// hit ErrSaveInFlight.
func (f *Flow) Saving() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saving
}

// Cycle returns the active cycle, nil before Initialize.
func (f *Flow) Cycle() *store.DiagnosticCycle { return f.cycle }

// Reevaluation reports whether phase 2 is running as the 45-day refined
// reevaluation rather than the first pass.
func (f *Flow) Reevaluation() bool { return f.reevaluation }

// Phase1Progress returns answered and total phase-1 question counts.
func (f *Flow) Phase1Progress() (answered, total int) {
	return len(f.phase1), f.bp.TotalPhase1Questions()
}

// Phase2Progress returns answered and total phase-2 question counts for the
// active critical pillar.
func (f *Flow) Phase2Progress() (answered, total int) {
	if f.cycle == nil {
		return 0, 0
	}
	critical, ok := pillar.Parse(f.cycle.CriticalPillar)
	if !ok {
		return len(f.phase2), 0
	}
	return len(f.phase2), len(f.bp.Phase2Questions(critical))
}

// Rules evaluates the temporal gates for the active cycle at the injected
// clock's current instant.
func (f *Flow) Rules() temporal.Rules {
	if f.cycle == nil {
		return temporal.Compute(nil, nil, nil, f.now())
	}
	return temporal.Compute(
		f.cycle.Phase1CompletedAt,
		f.cycle.ProtocolCompletedAt,
		f.cycle.Reeval45CompletedAt,
		f.now(),
	)
}

func phase1Key(p pillar.Pillar, number int) string {
	return fmt.Sprintf("%s:%d", p, number)
}

func phase2Type(qt blueprint.QuestionType, critical pillar.Pillar) string {
	if qt == blueprint.TypeTechnical {
		return fmt.Sprintf("technical:%s", critical)
	}
	return "state:general"
}

func phase2Key(questionType string, number int) string {
	return fmt.Sprintf("%s:%d", questionType, number)
}

// Initialize loads or creates the active cycle, restores persisted answers,
// merges the local checkpoint and derives the stage. When the previous
// cycle's 90-day gate is open it is stamped and a successor cycle is
// created before loading.
func (f *Flow) Initialize(ctx context.Context) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	cycle, err := f.cycles.LatestByUserNiche(ctx, f.userID, f.nicheID)
	if err != nil {
		return fmt.Errorf("load latest cycle: %w", err)
	}

	now := f.now()
	switch {
	case cycle == nil:
		cycle = &store.DiagnosticCycle{
			UserID:      f.userID,
			NicheID:     f.nicheID,
			CycleNumber: 1,
			Status:      store.StatusPhase1InProgress,
		}
		if err := f.cycles.Create(ctx, cycle); err != nil {
			return fmt.Errorf("create first cycle: %w", err)
		}
		f.log.Info("cycle started", "cycle_number", 1)

	case cycleFinished(cycle.Status):
		rules := temporal.Compute(cycle.Phase1CompletedAt, cycle.ProtocolCompletedAt, cycle.Reeval45CompletedAt, now)
		if rules.CanStartNewCycle {
			if err := f.cycles.MarkReeval90(ctx, cycle.ID, now); err != nil {
				return fmt.Errorf("stamp previous cycle: %w", err)
			}
			next := &store.DiagnosticCycle{
				UserID:      f.userID,
				NicheID:     f.nicheID,
				CycleNumber: cycle.CycleNumber + 1,
				Status:      store.StatusPhase1InProgress,
			}
			if err := f.cycles.Create(ctx, next); err != nil {
				return fmt.Errorf("create next cycle: %w", err)
			}
			f.log.Info("cycle started", "cycle_number", next.CycleNumber)
			cycle = next
		}
	}

	f.cycle = cycle
	if err := f.loadState(ctx); err != nil {
		return err
	}
	if err := f.recoverSummaries(ctx); err != nil {
		return err
	}

	f.route()
	f.log.Debug("session initialized", "stage", f.stage, "status", f.cycle.Status)
	return nil
}

// recoverSummaries replays a phase completion whose cycle write was lost:
// if the merged answers cover every question but the status never advanced,
// the summary is recomputed and persisted before routing. Without this a
// resumed session would sit on a questionnaire with nothing left to answer.
func (f *Flow) recoverSummaries(ctx context.Context) error {
	switch f.cycle.Status {
	case store.StatusPhase1InProgress:
		if len(f.phase1) >= f.bp.TotalPhase1Questions() {
			f.log.Warn("replaying lost phase-1 completion")
			return f.finishPhase1(ctx, "", "")
		}
	case store.StatusPhase2InProgress:
		critical, ok := pillar.Parse(f.cycle.CriticalPillar)
		if ok && len(f.phase2) >= len(f.bp.Phase2Questions(critical)) {
			f.log.Warn("replaying lost phase-2 completion")
			return f.finishPhase2(ctx, critical)
		}
	}
	return nil
}

func cycleFinished(status string) bool {
	return status == store.StatusProtocolCompleted || status == store.StatusReeval45Completed
}

// loadState rebuilds the in-memory answer maps and protocol draft from
// persisted rows, then lets a same-cycle checkpoint override any piece it
// carries strictly further.
func (f *Flow) loadState(ctx context.Context) error {
	p1Rows, err := f.responses.ListPhase1(ctx, f.cycle.ID)
	if err != nil {
		return fmt.Errorf("load phase-1 responses: %w", err)
	}
	phase1 := make(map[string]int, len(p1Rows))
	for _, r := range p1Rows {
		p, ok := pillar.Parse(r.Pillar)
		if !ok {
			continue
		}
		phase1[phase1Key(p, r.QuestionNumber)] = r.Score
	}

	phase2 := map[string]int{}
	if f.cycle.Status != store.StatusProtocolCompleted {
		// In reevaluation mode the persisted rows are the previous pass;
		// the new pass starts empty and only the checkpoint can resume it.
		p2Rows, err := f.responses.ListPhase2(ctx, f.cycle.ID)
		if err != nil {
			return fmt.Errorf("load phase-2 responses: %w", err)
		}
		for _, r := range p2Rows {
			phase2[phase2Key(r.QuestionType, r.QuestionNumber)] = r.Score
		}
	}

	prot, err := f.protocols.GetByCycleID(ctx, f.cycle.ID)
	if err != nil {
		return fmt.Errorf("load protocol progress: %w", err)
	}

	reflections := protocol.NormalizeReflections(nil, f.bp.ReflectionCount())
	if prot != nil {
		reflections = protocol.NormalizeReflections(store.ReflectionList(prot.Reflections), f.bp.ReflectionCount())
	}

	if f.checkpoints != nil {
		if cp := f.checkpoints.Load(f.userID, f.nicheID); cp.UsableFor(f.cycle.ID) {
			phase1 = checkpoint.MergeAnswers(phase1, cp.Phase1Answers)
			phase2 = checkpoint.MergeAnswers(phase2, cp.Phase2Answers)
			if !protocol.ReflectionsComplete(reflections, f.bp.ReflectionCount()) &&
				protocol.ReflectionsComplete(cp.Reflections, f.bp.ReflectionCount()) {
				reflections = protocol.NormalizeReflections(cp.Reflections, f.bp.ReflectionCount())
			}
		}
	}

	f.phase1 = phase1
	f.phase2 = phase2
	f.prot = prot
	f.reflections = reflections
	return nil
}

// route recomputes the stage and the reevaluation flag from current state.
func (f *Flow) route() {
	rules := f.Rules()
	f.stage = DeriveStage(DeriveInput{
		Cycle:           f.cycle,
		Phase1Answered:  len(f.phase1),
		Phase1Total:     f.bp.TotalPhase1Questions(),
		Phase2Answered:  len(f.phase2),
		ProtocolStarted: f.prot != nil,
		ReflectionsDone: protocol.ReflectionsComplete(f.reflections, f.bp.ReflectionCount()),
		Rules:           rules,
	})
	f.reevaluation = f.cycle != nil &&
		f.cycle.Status == store.StatusProtocolCompleted &&
		rules.CanRunPhase2Reevaluation
}

func (f *Flow) beginSave() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saving {
		return ErrSaveInFlight
	}
	f.saving = true
	return nil
}

func (f *Flow) endSave() {
	f.mu.Lock()
	f.saving = false
	f.mu.Unlock()
}

// saveCheckpoint shadows the in-memory answers to disk. Checkpoint failure
// is logged and swallowed: the database write already succeeded.
func (f *Flow) saveCheckpoint() {
	if f.checkpoints == nil || f.cycle == nil {
		return
	}
	cp := &checkpoint.Checkpoint{
		CycleID:       f.cycle.ID,
		Phase1Answers: f.phase1,
		Phase2Answers: f.phase2,
		Reflections:   f.reflections,
	}
	if err := f.checkpoints.Save(f.userID, f.nicheID, cp); err != nil {
		f.log.Warn("checkpoint save failed", "error", err)
	}
}

func (f *Flow) clearCheckpoint() {
	if f.checkpoints == nil {
		return
	}
	if err := f.checkpoints.Clear(f.userID, f.nicheID); err != nil {
		f.log.Warn("checkpoint clear failed", "error", err)
	}
}

// SavePhase1Answer records one phase-1 score. When the last question is
// answered the phase-1 summary is computed and persisted, routing either to
// the tie-break or to the phase-1 result.
func (f *Flow) SavePhase1Answer(ctx context.Context, p pillar.Pillar, questionNumber, score int) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil {
		return ErrNotInitialized
	}
	if f.stage != StagePhase1 {
		return ErrWrongStage
	}
	if score < blueprint.ScoreMin || score > blueprint.ScoreMax || !f.validPhase1Question(p, questionNumber) {
		return ErrInvalidAnswer
	}

	if err := f.responses.UpsertPhase1(ctx, &store.Phase1Response{
		CycleID:        f.cycle.ID,
		UserID:         f.userID,
		NicheID:        f.nicheID,
		Pillar:         string(p),
		QuestionNumber: questionNumber,
		Score:          score,
	}); err != nil {
		return fmt.Errorf("save phase-1 answer: %w", err)
	}

	f.phase1[phase1Key(p, questionNumber)] = score
	f.saveCheckpoint()

	if len(f.phase1) < f.bp.TotalPhase1Questions() {
		return nil
	}
	return f.finishPhase1(ctx, "", "")
}

func (f *Flow) validPhase1Question(p pillar.Pillar, number int) bool {
	for _, bank := range f.bp.Phase1Pillars {
		if bank.Pillar == p {
			return number >= 1 && number <= len(bank.Questions)
		}
	}
	return false
}

// finishPhase1 computes the summary (with optional manual tie-break picks)
// and persists it on the cycle.
func (f *Flow) finishPhase1(ctx context.Context, manualCritical, manualStrong pillar.Pillar) error {
	scores := f.phase1ScoresByPillar()
	summary := scoring.ComputePhase1Summary(scores, manualCritical, manualStrong)

	now := f.now()
	f.cycle.PillarClarity = summary.PillarPercentages[pillar.Clarity]
	f.cycle.PillarStructure = summary.PillarPercentages[pillar.Structure]
	f.cycle.PillarExecution = summary.PillarPercentages[pillar.Execution]
	f.cycle.PillarEmotional = summary.PillarPercentages[pillar.Emotional]
	f.cycle.GeneralIndex = summary.GeneralIndex
	if summary.Critical.Resolved {
		f.cycle.CriticalPillar = string(summary.Critical.Pillar)
	}
	if summary.Strong.Resolved {
		f.cycle.StrongPillar = string(summary.Strong.Pillar)
	}
	if f.cycle.Phase1CompletedAt == nil {
		f.cycle.Phase1CompletedAt = &now
	}
	if summary.HasTieBreak {
		f.cycle.Status = store.StatusPhase1TiePending
	} else {
		f.cycle.Status = store.StatusPhase2InProgress
	}

	if err := f.cycles.Update(ctx, f.cycle); err != nil {
		return fmt.Errorf("persist phase-1 summary: %w", err)
	}
	f.log.Info("phase 1 completed",
		"general_index", summary.GeneralIndex,
		"tie_break", summary.HasTieBreak,
	)
	f.route()
	return nil
}

func (f *Flow) phase1ScoresByPillar() map[pillar.Pillar][]int {
	scores := make(map[pillar.Pillar][]int, 4)
	for key, score := range f.phase1 {
		name, _, ok := strings.Cut(key, ":")
		if !ok {
			continue
		}
		p, valid := pillar.Parse(name)
		if !valid {
			continue
		}
		scores[p] = append(scores[p], score)
	}
	return scores
}

// Phase1Tie returns the unresolved critical and strong selections for the
// tie-break screen. Both are zero-valued when no tie is pending.
func (f *Flow) Phase1Tie() (critical, strong scoring.Selection) {
	if f.cycle == nil || f.cycle.Status != store.StatusPhase1TiePending {
		return scoring.Selection{}, scoring.Selection{}
	}
	summary := scoring.ComputePhase1Summary(f.phase1ScoresByPillar(), "", "")
	return summary.Critical, summary.Strong
}

// ResolveTieBreak applies manual picks for the tied sides. Fully resolved
// selections are persisted and the session moves to the phase-1 result;
// an invalid pick leaves everything unchanged.
func (f *Flow) ResolveTieBreak(ctx context.Context, manualCritical, manualStrong pillar.Pillar) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil {
		return ErrNotInitialized
	}
	if f.cycle.Status != store.StatusPhase1TiePending {
		return ErrWrongStage
	}

	summary := scoring.ComputePhase1Summary(f.phase1ScoresByPillar(), manualCritical, manualStrong)
	if !summary.Critical.Resolved || !summary.Strong.Resolved {
		return ErrTieUnresolved
	}
	return f.finishPhase1(ctx, manualCritical, manualStrong)
}

// StartPhase2 enters the refined assessment. On a completed protocol it
// runs as the 45-day reevaluation when the gate is open, otherwise the
// session routes to the matching blocked stage.
func (f *Flow) StartPhase2(ctx context.Context) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil {
		return ErrNotInitialized
	}

	cycle, err := f.cycles.GetByID(ctx, f.cycle.ID, f.userID, f.nicheID)
	if err != nil {
		return fmt.Errorf("refresh cycle: %w", err)
	}
	if cycle == nil {
		return ErrNotInitialized
	}
	f.cycle = cycle

	switch cycle.Status {
	case store.StatusPhase2InProgress:
		if _, ok := pillar.Parse(cycle.CriticalPillar); !ok {
			return ErrWrongStage
		}
		f.stage = StagePhase2
		return nil

	case store.StatusProtocolCompleted:
		rules := f.Rules()
		if !rules.CanRunPhase2Reevaluation {
			if rules.Phase2Reevaluation.Locked {
				f.stage = StageBlocked45
			}
			return ErrReevalLocked
		}
		// The reevaluation is a fresh pass: previous answers stay in the
		// database until overwritten but do not count as progress.
		f.phase2 = map[string]int{}
		f.reevaluation = true
		f.stage = StagePhase2
		return nil
	}

	return ErrWrongStage
}

// SavePhase2Answer records one phase-2 score. When the last question is
// answered the phase-2 summary is persisted; in reevaluation mode the cycle
// is closed with the 45-day stamp instead of opening the protocol.
func (f *Flow) SavePhase2Answer(ctx context.Context, qt blueprint.QuestionType, questionNumber, score int) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil {
		return ErrNotInitialized
	}
	if f.stage != StagePhase2 {
		return ErrWrongStage
	}
	critical, ok := pillar.Parse(f.cycle.CriticalPillar)
	if !ok {
		return ErrWrongStage
	}
	if score < blueprint.ScoreMin || score > blueprint.ScoreMax || !f.validPhase2Question(qt, questionNumber) {
		return ErrInvalidAnswer
	}

	questionType := phase2Type(qt, critical)
	if err := f.responses.UpsertPhase2(ctx, &store.Phase2Response{
		CycleID:        f.cycle.ID,
		UserID:         f.userID,
		NicheID:        f.nicheID,
		QuestionType:   questionType,
		QuestionNumber: questionNumber,
		Score:          score,
	}); err != nil {
		return fmt.Errorf("save phase-2 answer: %w", err)
	}

	f.phase2[phase2Key(questionType, questionNumber)] = score
	f.saveCheckpoint()

	if len(f.phase2) < len(f.bp.Phase2Questions(critical)) {
		return nil
	}
	return f.finishPhase2(ctx, critical)
}

func (f *Flow) validPhase2Question(qt blueprint.QuestionType, number int) bool {
	if f.cycle == nil {
		return false
	}
	critical, ok := pillar.Parse(f.cycle.CriticalPillar)
	if !ok {
		return false
	}
	switch qt {
	case blueprint.TypeTechnical:
		return number >= 1 && number <= len(f.bp.TechnicalBank[critical])
	case blueprint.TypeState:
		return number >= 1 && number <= len(f.bp.StateQuestions)
	}
	return false
}

func (f *Flow) finishPhase2(ctx context.Context, critical pillar.Pillar) error {
	var technical, state []int
	for key, score := range f.phase2 {
		if strings.HasPrefix(key, "technical:") {
			technical = append(technical, score)
		} else {
			state = append(state, score)
		}
	}
	summary := scoring.ComputePhase2Summary(technical, state)

	now := f.now()
	f.cycle.Phase2TechnicalIndex = summary.TechnicalIndex
	f.cycle.Phase2StateIndex = summary.StateIndex
	f.cycle.Phase2GeneralIndex = summary.GeneralIndex
	f.cycle.Phase2CompletedAt = &now
	if f.reevaluation {
		f.cycle.Reeval45CompletedAt = &now
		f.cycle.Status = store.StatusReeval45Completed
	} else {
		f.cycle.Status = store.StatusProtocolInProgress
	}

	if err := f.cycles.Update(ctx, f.cycle); err != nil {
		return fmt.Errorf("persist phase-2 summary: %w", err)
	}
	f.log.Info("phase 2 completed",
		"general_index", summary.GeneralIndex,
		"reevaluation", f.reevaluation,
		"critical_pillar", critical,
	)
	f.reevaluation = false
	f.stage = StagePhase2Result
	f.saveCheckpoint()
	return nil
}

// CriticalFindings extracts the low-score answers of the active phase-2
// pass with their diagnosis texts.
func (f *Flow) CriticalFindings() []scoring.CriticalPoint {
	if f.cycle == nil {
		return nil
	}
	critical, ok := pillar.Parse(f.cycle.CriticalPillar)
	if !ok {
		return nil
	}

	var items []scoring.CriticalPointInput
	for _, q := range f.bp.Phase2Questions(critical) {
		questionType := phase2Type(q.Type, critical)
		score, answered := f.phase2[phase2Key(questionType, q.Number)]
		if !answered {
			continue
		}
		item := scoring.CriticalPointInput{
			ID:             phase2Key(questionType, q.Number),
			QuestionType:   q.Type,
			QuestionNumber: q.Number,
			Score:          score,
			Title:          q.Title,
		}
		if q.Type == blueprint.TypeTechnical {
			item.Pillar = critical
		}
		items = append(items, item)
	}
	return scoring.CriticalPoints(items)
}

// StartProtocol opens the action protocol for the cycle, creating its
// progress record on first entry. It is rejected once the protocol is done
// or when the cycle is past it on the reevaluation path.
func (f *Flow) StartProtocol(ctx context.Context) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil {
		return ErrNotInitialized
	}
	switch f.cycle.Status {
	case store.StatusProtocolCompleted, store.StatusReeval45Completed:
		f.stage = StageBlocked90
		return ErrProtocolUnavailable
	case store.StatusProtocolInProgress:
	default:
		return ErrWrongStage
	}

	if f.prot == nil {
		prot := &store.ProtocolProgress{
			CycleID:      f.cycle.ID,
			UserID:       f.userID,
			NicheID:      f.nicheID,
			Block1:       store.MustJSON(make([]bool, protocol.ActionsPerBlock)),
			Block2:       store.MustJSON(make([]bool, protocol.ActionsPerBlock)),
			Block3:       store.MustJSON(make([]bool, protocol.ActionsPerBlock)),
			Reflections:  store.MustJSON(protocol.NormalizeReflections(nil, f.bp.ReflectionCount())),
			CurrentBlock: 1,
		}
		if err := f.protocols.Create(ctx, prot); err != nil {
			return fmt.Errorf("create protocol progress: %w", err)
		}
		f.prot = prot
	}

	if protocol.ReflectionsComplete(f.reflections, f.bp.ReflectionCount()) {
		f.stage = StageProtocolActions
	} else {
		f.stage = StageProtocolReflections
	}
	return nil
}

// SaveReflections persists the protocol reflections. Every prompt must be
// answered; a partial set is rejected and the stage does not advance.
func (f *Flow) SaveReflections(ctx context.Context, reflections []string) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil || f.prot == nil {
		return ErrNotInitialized
	}
	if f.stage != StageProtocolReflections {
		return ErrWrongStage
	}
	if !protocol.ReflectionsComplete(reflections, f.bp.ReflectionCount()) {
		return ErrReflectionsIncomplete
	}

	normalized := protocol.NormalizeReflections(reflections, f.bp.ReflectionCount())
	f.prot.Reflections = store.MustJSON(normalized)
	if err := f.protocols.Update(ctx, f.prot); err != nil {
		return fmt.Errorf("save reflections: %w", err)
	}

	f.reflections = normalized
	f.saveCheckpoint()
	f.stage = StageProtocolActions
	return nil
}

// ToggleAction flips one protocol action. Completing the last action of the
// last block closes the protocol and the cycle's active phase.
func (f *Flow) ToggleAction(ctx context.Context, block, index int) error {
	if err := f.beginSave(); err != nil {
		return err
	}
	defer f.endSave()

	if f.cycle == nil || f.prot == nil {
		return ErrNotInitialized
	}
	if f.stage != StageProtocolActions {
		return ErrWrongStage
	}

	b1 := protocol.Normalize(store.ActionList(f.prot.Block1))
	b2 := protocol.Normalize(store.ActionList(f.prot.Block2))
	b3 := protocol.Normalize(store.ActionList(f.prot.Block3))

	b1, b2, b3, currentBlock, completed, err := protocol.Toggle(
		block, index, b1, b2, b3, f.prot.CompletedAt != nil,
	)
	if err != nil {
		return err
	}

	f.prot.Block1 = store.MustJSON(b1)
	f.prot.Block2 = store.MustJSON(b2)
	f.prot.Block3 = store.MustJSON(b3)
	f.prot.CurrentBlock = currentBlock
	now := f.now()
	if completed {
		f.prot.CompletedAt = &now
	}
	if err := f.protocols.Update(ctx, f.prot); err != nil {
		return fmt.Errorf("save protocol progress: %w", err)
	}

	if !completed {
		return nil
	}

	f.cycle.Status = store.StatusProtocolCompleted
	f.cycle.ProtocolCompletedAt = &now
	if err := f.cycles.Update(ctx, f.cycle); err != nil {
		return fmt.Errorf("close protocol on cycle: %w", err)
	}
	f.log.Info("protocol completed", "cycle_number", f.cycle.CycleNumber)
	f.clearCheckpoint()
	f.route()
	return nil
}

// ProtocolDraft returns the normalized action blocks and current block for
// rendering the protocol screen.
func (f *Flow) ProtocolDraft() (b1, b2, b3 []bool, currentBlock int) {
	if f.prot == nil {
		empty := make([]bool, protocol.ActionsPerBlock)
		return empty, append([]bool(nil), empty...), append([]bool(nil), empty...), 1
	}
	b1 = protocol.Normalize(store.ActionList(f.prot.Block1))
	b2 = protocol.Normalize(store.ActionList(f.prot.Block2))
	b3 = protocol.Normalize(store.ActionList(f.prot.Block3))
	return b1, b2, b3, protocol.CurrentBlock(b1, b2, b3)
}
