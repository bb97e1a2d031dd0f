// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/pkg/profile"

	"github.com/keystone-ecs/ecs"
	"github.com/keystone-ecs/ecs/world"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	numEntities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, numEntities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for i := 0; i < rounds; i++ {
		w, err := world.Create()
		if err != nil {
			panic(err)
		}

		for j := 0; j < iters; j++ {
			entities := make([]*ecs.Entity, 0, numEntities)
			for k := 0; k < numEntities; k++ {
				e, err := w.CreateEntity(&comp1{}, &comp2{})
				if err != nil {
					panic(err)
				}
				entities = append(entities, e)
			}

			q := w.FindComponents()
			res := world.Select2[*comp1, *comp2](q)
			for res.HasNext() {
				c1, c2, _ := res.Next()
				c1.V += c2.V
				c1.W += c2.W
			}

			for _, e := range entities {
				w.DeleteEntity(e)
			}
		}
	}
}
