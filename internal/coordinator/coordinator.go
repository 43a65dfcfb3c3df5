// Package coordinator implements the Distributed Coordinator (C7): it
// runs the N peer workers, each executing partition -> sub-chunk ->
// decode -> classify -> aggregate over its own disjoint byte range, then
// gathers their partial results into a GlobalStats.
package coordinator

import (
	"io"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LOOP115/social-media-analytics/internal/config"
	"github.com/LOOP115/social-media-analytics/internal/partition"
	"github.com/LOOP115/social-media-analytics/internal/record"
	"github.com/LOOP115/social-media-analytics/internal/refindex"
	"github.com/LOOP115/social-media-analytics/internal/resolve"
	"github.com/LOOP115/social-media-analytics/internal/stats"
)

// Run loads the reference index, partitions the posts file across
// cfg.Workers peers, and returns their merged GlobalStats. Per spec §5,
// there is no cancellation: every worker runs to completion, and a
// fatal error from any one of them means the root drops all partials
// and aborts rather than returning a partial result.
func Run(cfg config.Config, log *zap.Logger) (stats.GlobalStats, error) {
	idx, err := refindex.Load(cfg.SalPath, log)
	if err != nil {
		return stats.GlobalStats{}, err
	}

	planFile, err := os.Open(cfg.PostsPath)
	if err != nil {
		return stats.GlobalStats{}, err
	}
	info, err := planFile.Stat()
	if err != nil {
		planFile.Close()
		return stats.GlobalStats{}, err
	}
	size := info.Size()

	ranges, err := partition.Ranges(planFile, size, cfg.Workers)
	planFile.Close()
	if err != nil {
		return stats.GlobalStats{}, err
	}

	partials := make([]*stats.LocalStats, cfg.Workers)

	var g errgroup.Group
	for r := 0; r < cfg.Workers; r++ {
		r := r
		g.Go(func() error {
			local, err := runWorker(r, ranges[r], cfg, idx, log)
			if err != nil {
				return err
			}
			partials[r] = local
			return nil
		})
	}

	// g.Wait is the barrier: it blocks until every worker's goroutine has
	// returned. On error the partials slice (however far it got filled
	// in) is discarded entirely — the root never aggregates a partial
	// result.
	if err := g.Wait(); err != nil {
		log.Error("worker failed; aborting without producing a result", zap.Error(err))
		return stats.GlobalStats{}, err
	}

	return stats.Merge(partials...), nil
}

// runWorker executes C2's already-computed range for worker rank:
// sub-chunk it, read and decode each piece, classify and accumulate
// every record. It opens its own file handle, per spec §5's "no shared
// file handle" requirement.
func runWorker(rank int, rng partition.Range, cfg config.Config, idx *refindex.ReferenceIndex, log *zap.Logger) (*stats.LocalStats, error) {
	f, err := os.Open(cfg.PostsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	log.Info("worker starting", zap.Int("worker", rank), zap.Int64("start", rng.Start), zap.Int64("end", rng.End))

	subRanges, err := partition.SubChunks(f, rng.Start, rng.End, cfg.SubChunkBudget)
	if err != nil {
		return nil, err
	}

	local := stats.New()
	for _, sr := range subRanges {
		n := sr.End - sr.Start
		if n <= 0 {
			continue
		}
		buf := make([]byte, n)
		if _, err := readFullAt(f, buf, sr.Start); err != nil {
			return nil, err
		}

		dec := record.NewDecoder(buf)
		for {
			post, ok, perr := dec.Next()
			if perr != nil {
				log.Warn("record parse error; abandoning remainder of sub-piece",
					zap.Int("worker", rank), zap.Error(perr))
				break
			}
			if !ok {
				break
			}
			res := resolve.Classify(idx, post)
			if res.AuthorID == "" {
				// FieldMissingError on author_id: spec §7 treats this as a
				// silent record reject, not even an unqualified count.
				continue
			}
			local.Add(res.AuthorID, res.OK, res.GCC)
		}
	}

	log.Info("worker done", zap.Int("worker", rank))
	return local, nil
}

// readFullAt reads exactly len(buf) bytes at off, tolerating the
// io.EOF some ReaderAt implementations return even on a full read that
// lands precisely at end-of-file.
func readFullAt(f *os.File, buf []byte, off int64) (int, error) {
	n, err := f.ReadAt(buf, off)
	if err == io.EOF && n == len(buf) {
		return n, nil
	}
	return n, err
}
