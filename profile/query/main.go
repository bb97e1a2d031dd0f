// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

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

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

type comp5 struct {
	V int64
	W int64
}

type comp6 struct {
	V int64
	W int64
}

func main() {
	// CPU Profiling
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	numEntities := 100000
	run(count, iters, numEntities)

	// Memory Profiling
	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for i := 0; i < rounds; i++ {
		w, err := world.Create()
		if err != nil {
			panic(err)
		}
		for j := 0; j < numEntities; j++ {
			if _, err := w.CreateEntity(&comp1{}, &comp2{}, &comp3{}, &comp4{}, &comp5{}, &comp6{}); err != nil {
				panic(err)
			}
		}

		for k := 0; k < iters; k++ {
			q := w.FindComponents()
			res := world.Select6[*comp1, *comp2, *comp3, *comp4, *comp5, *comp6](q)
			for res.HasNext() {
				c1, c2, _, _, _, _, _ := res.Next()
				c1.V += c2.V
				c1.W += c2.W
			}
		}
	}
}
