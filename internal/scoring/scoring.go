package scoring

import "strings"

// Assessment - результат эвристической оценки инцидента
type Assessment struct {
	Score          int    `json:"score"`
	Recommendation string `json:"recommendation"`
	Critical       bool   `json:"critical"`
}

// Рекомендации по уровням балла
const (
	RecommendationCritical = "IMMEDIATE EVACUATION & SWAT DEPLOYMENT"
	RecommendationElevated = "DISPATCH FIRE/EMS & ESTABLISH PERIMETER"
	RecommendationStandard = "STANDARD PATROL RESPONSE"
)

// CriticalThreshold - балл, начиная с которого инцидент считается критическим
const CriticalThreshold = 80

// Базовые баллы по известным типам инцидентов
var typeBaselines = map[string]int{
	"Explosion":     75,
	"Biohazard":     75,
	"Fire":          50,
	"Chemical Leak": 50,
	"Crash":         50,
	"Public Order":  30,
	"Theft":         30,
}

const defaultBaseline = 10

// Ключевые слова-модификаторы. Каждое найденное слово из первого набора
// добавляет +20, из второго +10. Совпадение по подстроке, наборы независимы.
var (
	criticalKeywords = []string{
		"massive", "nuclear", "biochemical", "biohazard",
		"collapse", "mass casualty", "active shooter", "terrorism", "level 5",
	}
	highKeywords = []string{
		"riot", "armed", "flood", "emergency", "homicide",
	}
)

// Районы с высокой плотностью населения. Текстовая эвристика:
// проверяется упоминание в описании, а не фактические координаты.
var highDensityZones = []string{"Downtown", "Sector 4", "Manhattan"}

// Analyze вычисляет эвристический балл серьёзности для инцидента.
// Чистая детерминированная функция, безопасна для конкурентного вызова.
func Analyze(incidentType, description string) Assessment {
	score, ok := typeBaselines[incidentType]
	if !ok {
		score = defaultBaseline
	}

	text := strings.ToLower(incidentType + " " + description)

	for _, word := range criticalKeywords {
		if strings.Contains(text, word) {
			score += 20
		}
	}
	for _, word := range highKeywords {
		if strings.Contains(text, word) {
			score += 10
		}
	}

	for _, zone := range highDensityZones {
		if strings.Contains(text, strings.ToLower(zone)) {
			score += 10
			break
		}
	}

	if score > 100 {
		score = 100
	}

	recommendation := RecommendationStandard
	switch {
	case score >= CriticalThreshold:
		recommendation = RecommendationCritical
	case score >= 50:
		recommendation = RecommendationElevated
	}

	return Assessment{
		Score:          score,
		Recommendation: recommendation,
		Critical:       score >= CriticalThreshold,
	}
}
