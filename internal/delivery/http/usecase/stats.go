package usecase

import (
	"sync"

	httpEntity "github.com/juniortalk/juniortalk-be/internal/delivery/http/entity"
)

// GlobalStats accumulates points across all sessions of this process.
// Intentionally not persisted; stats reset with the process.
type GlobalStats struct {
	mu     sync.Mutex
	points int
	streak int
}

type levelTitle struct {
	threshold int
	name      string
}

var levelTitles = []levelTitle{
	{threshold: 0, name: "Beginner"},
	{threshold: 50, name: "Explorer"},
	{threshold: 150, name: "Speaker"},
	{threshold: 300, name: "Master"},
	{threshold: 500, name: "Legend"},
}

func NewGlobalStats() *GlobalStats {
	return &GlobalStats{streak: 1}
}

func (g *GlobalStats) AddPoints(points int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.points += points
}

// MarkCompleted bumps the streak when a session reaches its natural ending.
func (g *GlobalStats) MarkCompleted() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.streak++
}

func (g *GlobalStats) View() httpEntity.StatsView {
	g.mu.Lock()
	defer g.mu.Unlock()

	return httpEntity.StatsView{
		Points:     g.points,
		Level:      LevelForPoints(g.points),
		LevelTitle: TitleForPoints(g.points),
		Streak:     g.streak,
	}
}

func LevelForPoints(points int) int {
	return points/100 + 1
}

// TitleForPoints resolves the highest title threshold not exceeding points.
func TitleForPoints(points int) string {
	name := levelTitles[0].name
	for _, lt := range levelTitles {
		if points >= lt.threshold {
			name = lt.name
		}
	}
	return name
}
