// Эталонный диспетчер подбора единиц реагирования. Читает из stdin одну
// строку "<lat> <lng> <score>", выбирает ближайшую по гаверсинусу единицу
// из статической таблицы и печатает её идентификатор в stdout. Сервер
// запускает этот бинарник как внешний процесс (MATCHER_PATH).
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/shenikar/crisis_dispatch_system/internal/geo"
	"github.com/shenikar/crisis_dispatch_system/internal/models"
)

// unit - единица реагирования с базовой точкой дислокации
type unit struct {
	ID   string
	Base models.Location
}

// Статическая таблица ресурсов. В боевой конфигурации заменяется
// подключением к реестру единиц.
var units = []unit{
	{ID: "Unit_Alpha", Base: models.Location{Lat: 40.715, Lng: -74.008}},
	{ID: "Unit_Bravo", Base: models.Location{Lat: 40.725, Lng: -74.000}},
	{ID: "Unit_Charlie", Base: models.Location{Lat: 40.700, Lng: -74.020}},
	{ID: "Unit_Delta", Base: models.Location{Lat: 34.052, Lng: -118.243}},
}

func main() {
	var lat, lng float64
	var score int

	if _, err := fmt.Fscan(os.Stdin, &lat, &lng, &score); err != nil {
		fmt.Fprintf(os.Stderr, "matcher: malformed input: %v\n", err)
		os.Exit(1)
	}

	bestUnit := "None"
	minDistance := math.MaxFloat64
	for _, u := range units {
		dist := geo.DistanceMeters(lat, lng, u.Base.Lat, u.Base.Lng)
		if dist < minDistance {
			minDistance = dist
			bestUnit = u.ID
		}
	}

	fmt.Println(bestUnit)
}
