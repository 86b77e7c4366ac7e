package loadtest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 20

// SeedResult summarises one seed run.
type SeedResult struct {
	Method       string
	Requested    int
	Success      int
	Failed       int
	UsersCreated int
	TotalTime    time.Duration
}

// AveragePerPost is the wall time divided by requested posts.
func (r SeedResult) AveragePerPost() time.Duration {
	if r.Requested == 0 {
		return 0
	}
	return r.TotalTime / time.Duration(r.Requested)
}

// FetchResult summarises one feed fetch.
type FetchResult struct {
	Limit     int
	PostCount int
	TotalTime time.Duration
}

func (r FetchResult) MillisPerPost() float64 {
	if r.PostCount == 0 {
		return 0
	}
	return float64(r.TotalTime.Microseconds()) / 1000 / float64(r.PostCount)
}

func (r FetchResult) PostsPerSecond() float64 {
	if r.TotalTime <= 0 {
		return 0
	}
	return float64(r.PostCount) / r.TotalTime.Seconds()
}

// Runner drives seed and fetch scenarios against a running API.
type Runner struct {
	client      *Client
	generator   *Generator
	concurrency int
}

func NewRunner(client *Client, generator *Generator, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Runner{
		client:      client,
		generator:   generator,
		concurrency: concurrency,
	}
}

// EnsureUsers creates every sample user. Existing users are not an error;
// other failures are logged and the run continues with whoever exists.
func (r *Runner) EnsureUsers(ctx context.Context) (int, error) {
	var created atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, req := range SampleUserRequests() {
		req := req
		g.Go(func() error {
			_, err := r.client.CreateUser(gctx, req)
			if err == nil {
				created.Add(1)
				return nil
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.AlreadyExists() {
				return nil
			}
			log.Printf("[LoadTest] Create user FAILED: username=%s err=%v", req.Username, err)
			return nil
		})
	}

	_ = g.Wait()
	return int(created.Load()), ctx.Err()
}

// Seed ensures the sample users exist, then creates count posts either with
// one bulk call or with individual calls bounded by the runner's concurrency.
func (r *Runner) Seed(ctx context.Context, count int, bulk bool) (*SeedResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}

	result := &SeedResult{Method: "individual", Requested: count}
	if bulk {
		result.Method = "bulk"
	}

	startTime := time.Now()

	usersCreated, err := r.EnsureUsers(ctx)
	result.UsersCreated = usersCreated
	if err != nil {
		return nil, err
	}
	log.Printf("[LoadTest] Users ready: created=%d", usersCreated)

	posts := r.generator.Posts(count)

	if bulk {
		resp, err := r.client.CreatePostsBulk(ctx, posts)
		if err != nil {
			log.Printf("[LoadTest] Bulk create FAILED: count=%d err=%v", count, err)
			result.Failed = count
		} else {
			result.Success = resp.Count
		}
	} else {
		var success, failed atomic.Int64

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.concurrency)
		for _, p := range posts {
			p := p
			g.Go(func() error {
				if _, err := r.client.CreatePost(gctx, toCreatePostRequest(p)); err != nil {
					failed.Add(1)
					return nil
				}
				success.Add(1)
				return nil
			})
		}
		_ = g.Wait()

		result.Success = int(success.Load())
		result.Failed = int(failed.Load())
	}

	result.TotalTime = time.Since(startTime)
	return result, nil
}

// Fetch times a single GET /posts?limit=.
func (r *Runner) Fetch(ctx context.Context, limit int) (*FetchResult, error) {
	startTime := time.Now()

	resp, err := r.client.ListPosts(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &FetchResult{
		Limit:     limit,
		PostCount: len(resp.Posts),
		TotalTime: time.Since(startTime),
	}, nil
}

func RenderSeed(w io.Writer, r *SeedResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Method", "Posts", "Success", "Failed", "Users Created", "Total", "Avg/Post"})
	table.SetAutoWrapText(false)
	table.Append([]string{
		r.Method,
		strconv.Itoa(r.Requested),
		strconv.Itoa(r.Success),
		strconv.Itoa(r.Failed),
		strconv.Itoa(r.UsersCreated),
		r.TotalTime.Round(time.Millisecond).String(),
		r.AveragePerPost().Round(time.Microsecond).String(),
	})
	table.Render()
}

func RenderFetch(w io.Writer, r *FetchResult) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Limit", "Posts", "Total", "ms/Post", "Posts/s"})
	table.SetAutoWrapText(false)
	table.Append([]string{
		strconv.Itoa(r.Limit),
		strconv.Itoa(r.PostCount),
		r.TotalTime.Round(time.Millisecond).String(),
		strconv.FormatFloat(r.MillisPerPost(), 'f', 3, 64),
		strconv.FormatFloat(r.PostsPerSecond(), 'f', 0, 64),
	})
	table.Render()
}
