package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/lintang-b-s/roadmerge/pkg/datastructure"
	"github.com/lintang-b-s/roadmerge/pkg/guidance"
	"github.com/lintang-b-s/roadmerge/pkg/osmparser"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

var (
	mapFile    = flag.String("f", "solo_jogja.osm.pbf", "openstreetmap file for the road network graph")
	graphFile  = flag.String("graph", "", "road network snapshot, skips the pbf parse when it exists")
	outFile    = flag.String("o", "", "write merged pair polylines to this file")
	numWorkers = flag.Int("workers", runtime.NumCPU(), "number of detection workers")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	if *cpuprofile != "" {
		// https://go.dev/blog/pprof
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()

		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	graph := loadGraph()

	bar := progressbar.NewOptions(graph.NumNodes(),
		progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("[cyan][2/2][reset] detecting mergeable carriageways ..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	pass := guidance.NewMergePass(graph)
	merged := pass.Run(*numWorkers, func() {
		bar.Add(1)
	})
	fmt.Println()
	log.Printf("found %d mergeable road pairs at %d nodes", len(merged), graph.NumNodes())

	if *outFile != "" {
		if err := writeMergedPairs(graph, merged, *outFile); err != nil {
			log.Fatal(err)
		}
		log.Printf("merged pair polylines written to %s", *outFile)
	}
}

func loadGraph() *datastructure.RoadNetwork {
	if *graphFile != "" {
		if graph, err := datastructure.LoadFromFile(*graphFile); err == nil {
			log.Printf("loaded road network snapshot %s: %d nodes, %d edges",
				*graphFile, graph.NumNodes(), graph.NumEdges())
			return graph
		}
	}

	log.Printf("reading osm file %s", *mapFile)
	parser := osmparser.NewOsmParser()
	graph, err := parser.Parse(*mapFile)
	if err != nil {
		log.Fatal(err)
	}

	if *graphFile != "" {
		if err := graph.SaveToFile(*graphFile); err != nil {
			log.Fatal(err)
		}
		log.Printf("road network snapshot saved to %s", *graphFile)
	}
	return graph
}

func writeMergedPairs(graph *datastructure.RoadNetwork, merged []guidance.MergedRoadPair, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	extractor := guidance.NewCoordinateExtractor(graph)
	w := bufio.NewWriter(f)
	for _, pair := range merged {
		left := datastructure.RenderPath(extractor.ExtractCoordinates(pair.LeftEdgeID))
		right := datastructure.RenderPath(extractor.ExtractCoordinates(pair.RightEdgeID))
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\n", pair.IntersectionNodeID, left, right); err != nil {
			return err
		}
	}
	return w.Flush()
}
