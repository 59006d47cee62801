package game

import (
	"math/rand/v2"
	"runtime"
	"sync"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/systems"
)

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	blip *blip.Scratch
	pcg  rand.PCG
	rng  *rand.Rand
}

func newWorkerScratch() *workerScratch {
	s := &workerScratch{blip: blip.NewScratch()}
	s.rng = rand.New(&s.pcg)
	return s
}

// stream reseeds the worker's generator and returns it. The result draws
// exactly what systems.NewStream(seed) would.
func (s *workerScratch) stream(seed uint64) *rand.Rand {
	systems.ReseedStream(&s.pcg, seed)
	return s.rng
}

// rangeFunc processes the slot range [lo, hi) with one worker's scratch.
type rangeFunc func(lo, hi int, scratch *workerScratch)

// workChunk represents a range of slots for a worker to process.
type workChunk struct {
	start, end int
	fn         rangeFunc
}

// workerPool fans slot ranges out to persistent goroutines.
type workerPool struct {
	scratches  []*workerScratch
	numWorkers int
	threshold  int // below this many slots, run on the caller

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// newWorkerPool creates a pool of the given size; workers <= 0 means
// GOMAXPROCS. Goroutines start on first use.
func newWorkerPool(workers, threshold int) *workerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scratches := make([]*workerScratch, workers)
	for i := range scratches {
		scratches[i] = newWorkerScratch()
	}
	return &workerPool{
		scratches:  scratches,
		numWorkers: workers,
		threshold:  threshold,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *workerPool) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *workerPool) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *workerPool) worker(workerID int) {
	defer p.wg.Done()
	scratch := p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// forEach calls fn over [0, n) split into one contiguous chunk per worker
// and returns when every chunk is done. Small ranges and single-worker
// pools run on the calling goroutine.
func (p *workerPool) forEach(n int, fn rangeFunc) {
	if n == 0 {
		return
	}
	if n < p.threshold || p.numWorkers == 1 {
		fn(0, n, p.scratches[0])
		return
	}

	p.startWorkers()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}
