package sim

import "sync"

// workChunk asks a worker to run one shard's frame.
type workChunk struct {
	shard int
	dt    float32
}

// parallelState holds the persistent worker pool that runs shard updates.
// Workers are started once and reused every frame.
type parallelState struct {
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(numWorkers, numShards int) *parallelState {
	return &parallelState{
		numWorkers: numWorkers,
		workChan:   make(chan workChunk, numShards),
		doneChan:   make(chan struct{}, numShards),
		stopChan:   make(chan struct{}),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(w *World) {
	if p.running {
		return
	}
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(w)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing shards until stopped.
// Any worker may run any shard: all per-shard state, including the random
// stream, lives on the shard.
func (p *parallelState) worker(w *World) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			w.stepShard(chunk.shard, chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// run dispatches every shard and blocks until all have finished (fork-join).
func (p *parallelState) run(numShards int, dt float32) {
	for i := 0; i < numShards; i++ {
		p.workChan <- workChunk{shard: i, dt: dt}
	}
	for i := 0; i < numShards; i++ {
		<-p.doneChan
	}
}
