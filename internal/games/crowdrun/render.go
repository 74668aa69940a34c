package crowdrun

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/crowd-runner/internal/core"
	"github.com/vovakirdan/crowd-runner/internal/games/crowdrun/sim"
)

// Visual characters for rendering
const (
	RunnerChar = '●'
	EnemyChar  = '▼'
	GateEdge   = '║'
	FinishA    = '▚'
	FinishB    = '▞'
	RoadEdge   = '│'
	LaneMark   = '┊'
	BarFill    = '█'
)

const (
	viewDepth     = 60.0 // World units visible ahead of the runner
	roadHalfWidth = 7.0  // Lateral half-width of the drawn road
	clusterWidth  = 7    // Crowd glyphs per row
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	snap := g.store.Snapshot()

	road := roadRect(dst)
	g.drawRoad(dst, road)
	g.drawGates(dst, road)
	g.drawTarget(dst, road, snap)
	drawCrowd(dst, road, snap)

	g.drawHUD(dst, snap)
	if snap.WarningVisible {
		drawWarning(dst, snap, g.store.Rules().Waves)
	}
	if snap.State == sim.StateBattle {
		g.drawBattle(dst, snap)
	}

	if g.paused {
		drawPanel(dst, line("PAUSED", core.ColorBrightYellow), line("Press P to resume", core.ColorWhite))
		return
	}
	g.drawStatePanel(dst, snap)
}

// roadRect returns the area of the lane view: everything between the HUD
// row and the hint row, narrowed to a playable width.
func roadRect(dst *core.Screen) core.Rect {
	w := core.Clamp(dst.Width()/2, 15, 61)
	return core.NewRect((dst.Width()-w)/2, 1, w, max(4, dst.Height()-2))
}

// runnerRow is the screen row the crowd runs on.
func runnerRow(road core.Rect) int {
	return road.Bottom() - 2
}

// column maps a lateral world offset to a screen column inside the road.
func column(road core.Rect, x float64) int {
	return road.X + 1 + core.Project(x, -roadHalfWidth, roadHalfWidth, road.W-2)
}

// row maps a distance ahead of the runner to a screen row.
// It reports false for distances outside the visible window.
func row(road core.Rect, dist float64) (int, bool) {
	if dist < -sim.TravelWindow || dist > viewDepth {
		return 0, false
	}
	bottom := runnerRow(road)
	return bottom - core.Project(dist, 0, viewDepth, bottom-road.Y+1), true
}

func (g *Game) drawRoad(dst *core.Screen, road core.Rect) {
	dst.DrawVLine(road.X, road.Y, road.H, RoadEdge, core.ColorGray)
	dst.DrawVLine(road.Right()-1, road.Y, road.H, RoadEdge, core.ColorGray)

	center := column(road, 0)
	scroll := 0
	if g.store.Snapshot().State == sim.StateRunning {
		scroll = g.frame / 6
	}
	for y := road.Y; y < road.Bottom(); y++ {
		if (y+scroll)%3 == 0 {
			dst.SetColored(center, y, LaneMark, core.ColorGray)
		}
	}
}

func (g *Game) drawGates(dst *core.Screen, road core.Rect) {
	half := sim.EntityGate.HalfWidth()
	for i := range g.gates {
		e := &g.gates[i]
		if e.Resolved() {
			continue
		}
		y, ok := row(road, e.Distance)
		if !ok {
			continue
		}
		c := core.ColorRed
		if e.Type.Beneficial() {
			c = core.ColorBrightGreen
		}
		left, right := column(road, e.X-half), column(road, e.X+half)
		dst.SetColored(left, y, GateEdge, c)
		dst.SetColored(right, y, GateEdge, c)

		label := e.Label()
		x := (left+right)/2 - utf8.RuneCountInString(label)/2
		dst.DrawTextColored(x, y, label, c)
	}
}

// drawTarget draws the active wave, or the finish line once every wave of
// the level is beaten.
func (g *Game) drawTarget(dst *core.Screen, road core.Rect, snap sim.Snapshot) {
	if snap.State == sim.StateReady || snap.State == sim.StateLevelComplete {
		return
	}

	if snap.FinishApproach(g.store.Rules().Waves) {
		y, ok := row(road, snap.EnemyPosition)
		if !ok {
			return
		}
		half := sim.EntityFinish.HalfWidth()
		for x := column(road, -half); x <= column(road, half); x++ {
			ch := FinishA
			if x%2 == 0 {
				ch = FinishB
			}
			dst.SetColored(x, y, ch, core.ColorWhite)
		}
		if y > road.Y {
			dst.DrawTextColored(column(road, 0)-3, y-1, "FINISH", core.ColorBrightYellow)
		}
		return
	}

	if snap.EnemyCount <= 0 {
		return
	}
	y, ok := row(road, snap.EnemyPosition)
	if !ok {
		return
	}
	y = min(y, runnerRow(road)-1)
	half := sim.EntityWave.HalfWidth()
	for x := column(road, -half); x <= column(road, half); x++ {
		dst.SetColored(x, y, EnemyChar, core.ColorRed)
	}
	if y > road.Y {
		label := fmt.Sprint(snap.DisplayEnemies())
		dst.DrawTextColored(column(road, 0)-len(label)/2, y-1, label, core.ColorBrightRed)
	}
}

// drawCrowd draws up to two rows of crowd glyphs around the runner.
func drawCrowd(dst *core.Screen, road core.Rect, snap sim.Snapshot) {
	n := snap.DisplayCrowd()
	if n <= 0 {
		return
	}
	cx, y := column(road, snap.RunnerPosition), runnerRow(road)

	first := min(n, clusterWidth)
	dst.DrawHLine(cx-first/2, y, first, RunnerChar, core.ColorBrightCyan)
	if rest := min(n-first, clusterWidth); rest > 0 {
		dst.DrawHLine(cx-rest/2, y+1, rest, RunnerChar, core.ColorCyan)
	}
	dst.DrawTextColored(cx+first/2+2, y, fmt.Sprint(n), core.ColorBrightCyan)
}

func (g *Game) drawHUD(dst *core.Screen, snap sim.Snapshot) {
	waves := g.store.Rules().Waves
	left := fmt.Sprintf(" CROWD %d  LEVEL %d  STAGE %d/%d  SCORE %d ",
		snap.DisplayCrowd(), snap.Level, min(snap.CurrentStage, waves), waves, snap.Score)
	dst.DrawTextColored(1, 0, left, core.ColorWhite)

	sound := "SOUND ON"
	if !snap.SoundEnabled {
		sound = "SOUND OFF"
	}
	right := sound
	switch {
	case snap.State != sim.StateRunning:
	case snap.FinishApproach(waves):
		right = fmt.Sprintf("FINISH %d  %s", int(math.Max(0, snap.EnemyPosition)), sound)
	default:
		right = fmt.Sprintf("ENEMY %d x%d  %s",
			int(math.Max(0, snap.EnemyPosition)), snap.DisplayEnemies(), sound)
	}
	dst.DrawTextColored(dst.Width()-utf8.RuneCountInString(right)-2, 0, right, core.ColorGray)

	dst.DrawTextCentered(dst.Height()-1, "←/→ steer  enter start  m sound  p pause  r restart  q quit", core.ColorGray)
}

// warningText returns the banner headline and detail for a warning level.
func warningText(level int, finish bool, enemies int) (title, detail string) {
	if finish {
		if level == 1 {
			return "FINISH LINE AHEAD!", "Reach the finish line to complete the level!"
		}
		return "", ""
	}
	switch level {
	case 1:
		return "ENEMIES DETECTED AHEAD!", "Enemy crowd spotted in the distance"
	case 2:
		return "WARNING: ENEMY FORCES APPROACHING!", fmt.Sprintf("%d enemies approaching fast!", enemies)
	case 3:
		return "DANGER! PREPARE FOR BATTLE!", "BATTLE IMMINENT!"
	default:
		return "", ""
	}
}

func drawWarning(dst *core.Screen, snap sim.Snapshot, waves int) {
	title, detail := warningText(snap.WarningLevel, snap.FinishApproach(waves), snap.DisplayEnemies())
	if title == "" {
		return
	}
	c := core.ColorBrightYellow
	switch snap.WarningLevel {
	case 2:
		c = core.ColorOrange
	case 3:
		c = core.ColorBrightRed
	}
	dst.DrawTextCentered(3, title, c)
	dst.DrawTextCentered(4, detail, core.ColorWhite)
}

// battleBar splits width cells between the crowd and the enemies in
// proportion to their counts.
func battleBar(crowd, enemies float64, width int) (crowdCells int) {
	total := crowd + enemies
	if total <= 0 || width <= 0 {
		return 0
	}
	return core.Clamp(int(math.Round(crowd/total*float64(width))), 0, width)
}

func (g *Game) drawBattle(dst *core.Screen, snap sim.Snapshot) {
	w := core.Clamp(dst.Width()-10, 20, 50)
	box := core.NewRect((dst.Width()-w)/2, max(1, dst.Height()/2-4), w, 7)
	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorRed)

	dst.DrawTextCentered(box.Y+1, "BATTLE IN PROGRESS", core.ColorBrightRed)
	sides := fmt.Sprintf("YOUR CROWD %d  vs  ENEMIES %d", snap.DisplayCrowd(), snap.DisplayEnemies())
	dst.DrawTextCentered(box.Y+2, sides, core.ColorWhite)

	barW := box.W - 4
	filled := battleBar(snap.CrowdCount, snap.EnemyCount, barW)
	dst.DrawHLine(box.X+2, box.Y+3, filled, BarFill, core.ColorBrightCyan)
	dst.DrawHLine(box.X+2+filled, box.Y+3, barW-filled, BarFill, core.ColorRed)

	verdict, c := "DEFEAT IMMINENT!", core.ColorBrightRed
	if snap.CrowdCount > snap.EnemyCount {
		verdict, c = "VICTORY IMMINENT!", core.ColorBrightGreen
	}
	rules := g.store.Rules()
	if rules.Policy == sim.BattleTimed {
		left := math.Max(0, rules.BattleDuration-snap.BattleElapsed)
		verdict = fmt.Sprintf("%s  %.1fs", verdict, left)
	}
	dst.DrawTextCentered(box.Y+5, verdict, c)
}

func (g *Game) drawStatePanel(dst *core.Screen, snap sim.Snapshot) {
	sound := "Sound ON (M)"
	if !snap.SoundEnabled {
		sound = "Sound OFF (M)"
	}

	switch snap.State {
	case sim.StateReady:
		lines := []panelLine{line("CROWD RUNNER", core.ColorBrightCyan)}
		if snap.Level > 1 {
			lines = append(lines, line(fmt.Sprintf("LEVEL %d", snap.Level), core.ColorWhite))
		}
		if snap.Score > 0 {
			lines = append(lines, line(fmt.Sprintf("SCORE: %d", snap.Score), core.ColorWhite))
		}
		action := "Press ENTER to start"
		if snap.Level > 1 {
			action = "Press ENTER to continue"
		}
		lines = append(lines, line(action, core.ColorBrightYellow), line(sound, core.ColorGray))
		drawPanel(dst, lines...)

	case sim.StateWin:
		drawPanel(dst,
			line("Victory!", core.ColorBrightGreen),
			line(fmt.Sprintf("Your crowd: %d", snap.DisplayCrowd()), core.ColorWhite),
			line(fmt.Sprintf("Enemy crowd: %d", snap.DisplayEnemies()), core.ColorWhite),
			line(fmt.Sprintf("SCORE: %d", snap.Score), core.ColorWhite),
		)

	case sim.StateLose:
		drawPanel(dst,
			line("Defeat!", core.ColorBrightRed),
			line(fmt.Sprintf("Your crowd: %d", snap.DisplayCrowd()), core.ColorWhite),
			line(fmt.Sprintf("Enemy crowd: %d", snap.DisplayEnemies()), core.ColorWhite),
			line(fmt.Sprintf("SCORE: %d  LEVEL: %d", snap.Score, snap.Level), core.ColorWhite),
			line("Press ENTER to play again", core.ColorBrightYellow),
		)

	case sim.StateLevelComplete:
		bonus := g.store.Rules().LevelBonus(snap.Level, snap.CrowdCount)
		drawPanel(dst,
			line("Level Complete!", core.ColorBrightGreen),
			line(fmt.Sprintf("Level: %d", snap.Level), core.ColorWhite),
			line(fmt.Sprintf("Survivors: %d", snap.DisplayCrowd()), core.ColorWhite),
			line(fmt.Sprintf("Bonus: +%d", bonus), core.ColorBrightYellow),
			line(fmt.Sprintf("Total Score: %d", snap.Score), core.ColorWhite),
			line("Press ENTER for the next level", core.ColorBrightYellow),
		)
	}
}

type panelLine struct {
	text  string
	color core.Color
}

func line(text string, c core.Color) panelLine {
	return panelLine{text: text, color: c}
}

// drawPanel draws a boxed block of centered lines in the middle of the screen.
func drawPanel(dst *core.Screen, lines ...panelLine) {
	w := 0
	for _, l := range lines {
		w = max(w, utf8.RuneCountInString(l.text))
	}
	box := core.NewRect(0, 0, w+6, len(lines)+4)
	box.X = (dst.Width() - box.W) / 2
	box.Y = max(0, (dst.Height()-box.H)/2)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)
	for i, l := range lines {
		text := strings.TrimSpace(l.text)
		x := box.X + (box.W-utf8.RuneCountInString(text))/2
		dst.DrawTextColored(x, box.Y+2+i, text, l.color)
	}
}
