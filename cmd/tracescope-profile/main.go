// tracescope-profile classifies per-file I/O access patterns from an OTF2
// trace and writes a JSON profile summarizing them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/tracescope/tracescope/accesspattern"
	"github.com/tracescope/tracescope/ingest"
	"github.com/tracescope/tracescope/registry"
	"github.com/tracescope/tracescope/report"
	"github.com/tracescope/tracescope/topology"
)

var (
	outPrefix   = flag.String("out", "tracescope-profile", "Output path prefix; writes <prefix>.json")
	spillDir    = flag.String("spill-dir", "", "Directory to write a snappy-compressed copy of each handle's access vector to; empty disables spilling")
	codec       = flag.String("codec", string(ingest.CodecZlib), "Trace chunk compression codec: zlib, zlibng, zstd, or gzip")
	parallelism = flag.Int("parallelism", 0, "Maximum number of files to classify concurrently; 0 = runtime.NumCPU()")
)

func tracescopeProfileUsage() {
	fmt.Printf("Usage: %s [OPTIONS] trace.otf2\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = tracescopeProfileUsage
	shutdown := grail.Init()
	defer shutdown()

	if flag.NArg() != 1 {
		log.Fatalf("Missing positional argument (trace.otf2 required); please check flag syntax: '%s'", strings.Join(flag.Args(), " "))
	}
	tracePath := flag.Arg(0)
	ext := filepath.Ext(tracePath)
	if ext != ".otf2" {
		log.Fatalf("unsupported trace extension %q (only .otf2 is supported, not .otf/.json)", ext)
	}

	ctx := vcontext.Background()
	if err := run(ctx, tracePath, ingest.Codec(*codec), *outPrefix, *spillDir, *parallelism); err != nil {
		log.Panicf("%v", err)
	}
	log.Debug.Printf("exiting")
}

// boundReader wraps a Reader and binds each event's handle to its file path
// in reg as a side effect, so CollectHandle's per-handle output can later be
// grouped back into per-file sequences.
type boundReader struct {
	ingest.Reader
	reg *registry.Registry
}

func (r *boundReader) Next() (ingest.Event, error) {
	ev, err := r.Reader.Next()
	if err != nil {
		return ev, err
	}
	r.reg.BindHandle(ev.Handle, ev.FilePath)
	if _, err := r.reg.FileFor(ev.FilePath); err != nil {
		return ev, err
	}
	return ev, nil
}

func run(ctx context.Context, tracePath string, codec ingest.Codec, outPrefix, spillDir string, parallelism int) error {
	fr, err := ingest.OpenFile(ctx, tracePath, codec)
	if err != nil {
		return err
	}
	defer fr.Close()

	reg := registry.New()
	reader := &boundReader{Reader: ingest.NewOTF2Reader(fr), reg: reg}

	byHandle, ingestErrs := ingest.CollectHandle(reader)
	for _, ie := range ingestErrs {
		log.Error.Printf("ingest: %v", ie)
	}

	cache := ingest.NewSpillCache(spillDir)

	byFile := make(map[string][]accesspattern.HandleSequence)
	for handle, records := range byHandle {
		path, ok := reg.FileForHandle(handle)
		if !ok {
			path = fmt.Sprintf("handle-%d", handle)
		}
		if cache.Enabled() && len(records) > 0 {
			if _, err := cache.Spill(handle, records); err != nil {
				log.Error.Printf("ingest: spilling handle %d: %v", handle, err)
			}
		}
		byFile[path] = append(byFile[path], accesspattern.NewHandleSequence(handle, records))
	}

	profile := report.NewProfile(tracePath, 0, topology.Summary{})
	profile.Files = classifyFiles(byFile, parallelism)

	b, err := profile.Marshal()
	if err != nil {
		return err
	}
	outPath := outPrefix + ".json"
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%d files)", outPath, len(profile.Files))
	return nil
}

// classifyFiles runs accesspattern.Global once per file, fanning the work
// out across parallelism workers (0 means runtime.NumCPU()): each file's
// handles are independent of every other file's, and Global classifies by
// delegating to Local, which its doc comment says "is safe to call
// concurrently for different handles." Workers drain a shared index
// channel, mirroring mark_duplicates.go's shardChannel/workerGroup
// pattern, so a file whose classification takes longer than its peers
// never stalls the others.
func classifyFiles(byFile map[string][]accesspattern.HandleSequence, parallelism int) []*report.FileInfo {
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	if len(paths) == 0 {
		return nil
	}

	workers := parallelism
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	log.Debug.Printf("classifying %d files across %d workers", len(paths), workers)

	indexChannel := make(chan int, len(paths))
	for i := range paths {
		indexChannel <- i
	}
	close(indexChannel)

	files := make([]*report.FileInfo, len(paths))
	var workerGroup sync.WaitGroup
	for w := 0; w < workers; w++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			for i := range indexChannel {
				path := paths[i]
				result := accesspattern.Global(byFile[path])
				files[i] = report.NewFileInfo(path, result)
			}
		}()
	}
	workerGroup.Wait()

	return files
}
