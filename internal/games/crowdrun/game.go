// Package crowdrun implements Crowd Runner, a lane runner where the player
// steers a crowd through arithmetic gates and fights enemy waves with it.
// The rules live in the sim package; this package moves the course, turns
// input into store commands and draws the result.
package crowdrun

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/crowd-runner/internal/audio"
	"github.com/vovakirdan/crowd-runner/internal/config"
	"github.com/vovakirdan/crowd-runner/internal/core"
	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun/sim"
	"github.com/vovakirdan/crowd-runner/internal/registry"
)

// Registered game IDs.
const (
	ID      = "crowdrun"
	TimedID = "crowdrun_timed"
)

func init() {
	registry.Register(ID, "Crowd Runner", factory(false))
	registry.Register(TimedID, "Crowd Runner (timed battles)", factory(true))
}

func factory(timed bool) registry.Factory {
	return func(opts registry.Options) (registry.Game, error) {
		return New(opts, timed)
	}
}

// Game drives a sim.Store from fixed ticks.
type Game struct {
	id    string
	title string

	cfg        config.CrowdConfig
	store      *sim.Store
	difficulty *config.DifficultyManager
	log        *log.Logger
	player     audio.Player

	runtime core.RuntimeConfig
	rng     *rand.Rand

	plan        sim.LevelPlan
	gates       []sim.GateEntity
	waveLatch   sim.Latch // Trips when the runner meets the active wave
	finishLatch sim.Latch // Trips when the runner crosses the finish line

	spawnedLevel int // Level and stage whose wave has been populated
	spawnedStage int

	paused bool
	frame  int // Animation counter
	unsubs []func()
	closed bool
}

// New builds a game from options. With timed set, battles are resolved by
// the battle timer instead of attrition.
func New(opts registry.Options, timed bool) (*Game, error) {
	opts = opts.WithDefaults()

	cfg, err := config.LoadCrowd(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("crowdrun: %w", err)
	}
	preset, err := config.ParsePreset(opts.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("crowdrun: %w", err)
	}
	config.ApplyCrowdPreset(&cfg, preset)

	rules := cfg.Rules()
	id, title := ID, "Crowd Runner"
	if timed {
		rules.Policy = sim.BattleTimed
		id, title = TimedID, "Crowd Runner (timed battles)"
	}

	g := &Game{
		id:         id,
		title:      title,
		cfg:        cfg,
		store:      sim.NewStore(rules),
		difficulty: config.NewDifficultyManager(cfg.Difficulty, cfg.Generation.Difficulty),
		log:        opts.Logger,
		player:     opts.Audio,
		runtime:    core.DefaultConfig(),
	}
	g.unsubs = append(g.unsubs,
		g.store.Subscribe(g.logChange),
		audio.NewDirector(opts.Audio, opts.Logger).Attach(g.store),
	)
	g.log.Debug("game created", "id", id, "policy", rules.Policy, "difficulty", preset)
	return g, nil
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return g.title
}

// Store exposes the simulation store.
func (g *Game) Store() *sim.Store {
	return g.store
}

// Gates returns the gates of the current level.
func (g *Game) Gates() []sim.GateEntity {
	return g.gates
}

// Plan returns the current level plan.
func (g *Game) Plan() sim.LevelPlan {
	return g.plan
}

// Reset starts a fresh session on level 1.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g.rng = rand.New(rand.NewSource(seed))

	g.store.ResetGame()
	g.paused = false
	g.frame = 0
	g.prepareLevel(g.store.Snapshot().Level)
}

// prepareLevel generates the course for a level and rearms the latches.
func (g *Game) prepareLevel(level int) {
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	params := sim.GenParams{
		Level:      level,
		Spacing:    g.cfg.Generation.GateSpacing,
		Difficulty: g.difficulty.Multiplier(level),
	}
	g.plan = sim.GenerateGates(params, g.rng)
	g.gates = sim.NewGateEntities(g.plan.Gates)
	g.waveLatch.Rearm()
	g.finishLatch.Rearm()
	g.spawnedLevel, g.spawnedStage = 0, 0
	g.store.SetEnemyCount(0)

	g.log.Debug("level prepared",
		"level", g.plan.Level,
		"gates", g.plan.NumberOfGates,
		"enemies", g.plan.EnemyStartingCount,
		"difficulty", params.Difficulty)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.closed {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.Reset(g.runtime)
		return core.StepResult{State: g.State()}
	}
	if in.Has(core.ActionToggleSound) {
		g.store.ToggleSound()
	}

	snap := g.store.Snapshot()
	if in.Has(core.ActionPause) && pausable(snap.State) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionConfirm) {
		g.confirm(snap.State)
	}

	snap = g.store.Snapshot()
	if dir := in.Steer(); dir != 0 && snap.State == sim.StateRunning {
		g.store.SetRunnerPosition(snap.RunnerPosition + float64(dir)*g.cfg.Player.LateralStep)
	}

	g.frame++
	dt := g.runtime.TickSeconds()
	before := g.store.Snapshot()
	g.store.Update(dt)
	if before.State == sim.StateRunning {
		g.moveGates(before.Speed * dt)
	}
	g.checkProximity()
	g.sync()

	return core.StepResult{State: g.State()}
}

func pausable(s sim.GameState) bool {
	return s == sim.StateRunning || s == sim.StateBattle || s == sim.StateWin
}

// confirm handles the start/continue/retry key for the current state.
func (g *Game) confirm(state sim.GameState) {
	var err error
	switch state {
	case sim.StateReady:
		err = g.store.StartGame()
	case sim.StateLevelComplete:
		err = g.store.NextLevel()
	case sim.StateLose:
		g.store.ResetGame()
		g.prepareLevel(g.store.Snapshot().Level)
	}
	if err != nil {
		g.log.Warn("command rejected", "state", state, "err", err)
	}
}

// moveGates brings every gate closer by d world units.
func (g *Game) moveGates(d float64) {
	for i := range g.gates {
		g.gates[i].Advance(d)
	}
}

// checkProximity resolves gate, wave and finish-line contacts.
func (g *Game) checkProximity() {
	snap := g.store.Snapshot()
	if snap.State != sim.StateRunning {
		return
	}

	for i := range g.gates {
		e := &g.gates[i]
		if !e.Touches(snap.RunnerPosition) {
			continue
		}
		if _, err := g.store.CrossGate(e); err != nil {
			g.log.Warn("gate rejected", "gate", e.ID, "err", err)
		}
	}

	snap = g.store.Snapshot()
	dz := math.Max(0, snap.EnemyPosition)
	if snap.FinishApproach(g.store.Rules().Waves) {
		if sim.Collides(sim.EntityFinish, dz, -snap.RunnerPosition) && g.finishLatch.Fire() {
			if err := g.store.CompleteLevel(); err != nil {
				g.log.Warn("finish rejected", "err", err)
			}
		}
		return
	}
	if sim.Collides(sim.EntityWave, dz, -snap.RunnerPosition) && g.waveLatch.Fire() {
		if err := g.store.StartBattle(); err != nil {
			g.log.Warn("battle rejected", "err", err)
		}
	}
}

// sync reacts to transitions that happened during the tick: a new level
// gets a fresh course and a new wave gets its enemies.
func (g *Game) sync() {
	snap := g.store.Snapshot()
	if snap.State == sim.StateReady && snap.Level != g.plan.Level {
		g.prepareLevel(snap.Level)
		return
	}
	if snap.State != sim.StateRunning || snap.FinishApproach(g.store.Rules().Waves) {
		return
	}
	if snap.Level == g.spawnedLevel && snap.CurrentStage == g.spawnedStage {
		return
	}
	g.spawnedLevel, g.spawnedStage = snap.Level, snap.CurrentStage
	g.waveLatch.Rearm()
	g.store.SetEnemyCount(g.plan.WaveEnemies(snap.CurrentStage))
}

// State returns the current game state for the platform.
func (g *Game) State() core.GameState {
	snap := g.store.Snapshot()
	return core.GameState{
		Score:    snap.Score,
		Level:    snap.Level,
		GameOver: snap.State == sim.StateLose,
		Paused:   g.paused,
	}
}

// Close detaches the subscribers and cancels pending timers.
func (g *Game) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	for _, unsub := range g.unsubs {
		unsub()
	}
	g.unsubs = nil
	g.store.Close()
	g.player.StopAll()
	return nil
}

// logChange records state transitions and run outcomes.
func (g *Game) logChange(c sim.Change) {
	prev, next := c.Prev, c.Next
	if prev.State != next.State {
		g.log.Debug("transition",
			"event", c.Event,
			"from", prev.State,
			"to", next.State,
			"level", next.Level,
			"stage", next.CurrentStage)
	}
	if prev.BattleStatus != next.BattleStatus && next.BattleStatus == sim.BattleEngaged {
		g.log.Debug("battle", "crowd", next.DisplayCrowd(), "enemies", next.DisplayEnemies())
	}
	switch {
	case next.State == sim.StateLose && prev.State != sim.StateLose:
		g.log.Info("run over", "score", next.Score, "level", next.Level, "stage", next.CurrentStage)
	case next.State == sim.StateLevelComplete && prev.State != sim.StateLevelComplete:
		g.log.Info("level complete", "level", next.Level, "crowd", next.DisplayCrowd(), "score", next.Score)
	}
}
