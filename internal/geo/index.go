package geo

import (
	"math"

	"github.com/google/uuid"

	"github.com/shenikar/crisis_dispatch_system/internal/models"
)

// metersPerDegreeLat - длина одного градуса широты в метрах
const metersPerDegreeLat = 111320.0

type cellKey struct {
	X int
	Y int
}

// Index - сеточный индекс точек для поиска соседей. Размер ячейки равен
// радиусу поиска, поэтому кандидаты всегда лежат в окрестности 3x3 ячеек
// (по долготе окрестность расширяется с ростом широты). Ячейки по долготе
// образуют замкнутое кольцо: соседи по разные стороны меридиана 180°
// находятся так же, как и везде. Каждый кандидат дополнительно
// перепроверяется точным расстоянием, так что семантика поиска совпадает
// с линейным перебором.
//
// Индекс не синхронизирован: за блокировки отвечает владелец (State Store).
type Index struct {
	cellSizeMeters float64
	cellDeg        float64
	ringCells      int
	cells          map[cellKey]map[uuid.UUID]models.Location
	keys           map[uuid.UUID]cellKey
}

// NewIndex создает индекс с ячейкой размером radiusMeters
func NewIndex(radiusMeters float64) *Index {
	cellDeg := radiusMeters / metersPerDegreeLat
	return &Index{
		cellSizeMeters: radiusMeters,
		cellDeg:        cellDeg,
		ringCells:      int(math.Ceil(360 / cellDeg)),
		cells:          make(map[cellKey]map[uuid.UUID]models.Location),
		keys:           make(map[uuid.UUID]cellKey),
	}
}

// wrapX замыкает индекс ячейки по долготе в кольцо, так что ячейки у 180°
// и -180° оказываются соседними
func (idx *Index) wrapX(x int) int {
	x %= idx.ringCells
	if x < 0 {
		x += idx.ringCells
	}
	return x
}

func (idx *Index) keyFor(loc models.Location) cellKey {
	return cellKey{
		X: idx.wrapX(int(math.Floor(loc.Lng / idx.cellDeg))),
		Y: int(math.Floor(loc.Lat / idx.cellDeg)),
	}
}

// Insert добавляет точку в индекс. Повторная вставка того же ID перемещает точку.
func (idx *Index) Insert(id uuid.UUID, loc models.Location) {
	idx.Remove(id)

	key := idx.keyFor(loc)
	cell, ok := idx.cells[key]
	if !ok {
		cell = make(map[uuid.UUID]models.Location)
		idx.cells[key] = cell
	}
	cell[id] = loc
	idx.keys[id] = key
}

// Remove удаляет точку из индекса. Удаление неизвестного ID - no-op.
func (idx *Index) Remove(id uuid.UUID) {
	key, ok := idx.keys[id]
	if !ok {
		return
	}
	delete(idx.cells[key], id)
	if len(idx.cells[key]) == 0 {
		delete(idx.cells, key)
	}
	delete(idx.keys, id)
}

// Len возвращает количество точек в индексе
func (idx *Index) Len() int {
	return len(idx.keys)
}

// CountWithin возвращает число точек строго ближе radiusMeters к loc.
// Сама точка loc не входит в индекс на момент проверки и не учитывается.
func (idx *Index) CountWithin(loc models.Location, radiusMeters float64) int {
	center := idx.keyFor(loc)

	// Шаг по долготе растет с широтой: градус долготы короче градуса широты
	// в cos(lat) раз.
	spanX := 1
	if cosLat := math.Cos(loc.Lat * math.Pi / 180); cosLat > 1e-6 {
		spanX = int(math.Ceil(1 / cosLat))
	} else {
		// У полюсов ячейки по долготе вырождаются, проверяем все
		spanX = idx.ringCells
	}

	// Окно не шире полного кольца, иначе его ячейки учитывались бы дважды
	cellsX := 2*spanX + 1
	if cellsX > idx.ringCells {
		cellsX = idx.ringCells
	}

	count := 0
	for dy := -1; dy <= 1; dy++ {
		for i := 0; i < cellsX; i++ {
			cell, ok := idx.cells[cellKey{X: idx.wrapX(center.X - spanX + i), Y: center.Y + dy}]
			if !ok {
				continue
			}
			for _, candidate := range cell {
				if DistanceMeters(loc.Lat, loc.Lng, candidate.Lat, candidate.Lng) < radiusMeters {
					count++
				}
			}
		}
	}
	return count
}
