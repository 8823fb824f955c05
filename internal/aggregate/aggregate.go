// Package aggregate groups findings into buckets by exception type or call
// signature and sums per-file code statistics into corpus totals.
//
// Merging happens on one goroutine after every file has been classified;
// nothing here is safe for concurrent use.
package aggregate

import "catchminer/internal/finding"

// Counts are the running tallies of a bucket or a whole table.
type Counts struct {
	Findings        int `json:"findings" yaml:"findings"`
	Logged          int `json:"logged" yaml:"logged"`
	Thrown          int `json:"thrown" yaml:"thrown"`
	LoggedAndThrown int `json:"loggedAndThrown" yaml:"loggedAndThrown"`
	LoggedNotThrown int `json:"loggedNotThrown" yaml:"loggedNotThrown"`
}

func (c *Counts) add(f *finding.Finding) {
	c.Findings++
	logged, thrown := f.Has(finding.Logged), f.Has(finding.Rethrown)
	if logged {
		c.Logged++
		if thrown {
			c.LoggedAndThrown++
		} else {
			c.LoggedNotThrown++
		}
	}
	if thrown {
		c.Thrown++
	}
}

// Bucket holds the findings sharing one key.
type Bucket struct {
	Key      string             `json:"key" yaml:"key"`
	Findings []*finding.Finding `json:"-" yaml:"-"`
	Counts   `yaml:",inline"`
}

// Table is the set of buckets of one finding kind, in the order their keys
// were first seen.
type Table struct {
	Kind    finding.Kind
	Totals  Counts
	buckets map[string]*Bucket
	order   []*Bucket
}

// NewTable creates an empty table.
func NewTable(kind finding.Kind) *Table {
	return &Table{Kind: kind, buckets: make(map[string]*Bucket)}
}

// Add files f under its key.
func (t *Table) Add(f *finding.Finding) {
	b, ok := t.buckets[f.Key]
	if !ok {
		b = &Bucket{Key: f.Key}
		t.buckets[f.Key] = b
		t.order = append(t.order, b)
	}
	b.Findings = append(b.Findings, f)
	b.add(f)
	t.Totals.add(f)
}

// Bucket returns the bucket for key, or nil.
func (t *Table) Bucket(key string) *Bucket {
	return t.buckets[key]
}

// Buckets returns the buckets in first-seen order.
func (t *Table) Buckets() []*Bucket {
	return t.order
}

// Len returns the number of distinct keys.
func (t *Table) Len() int {
	return len(t.order)
}

// Findings returns every finding, bucket by bucket.
func (t *Table) Findings() []*finding.Finding {
	out := make([]*finding.Finding, 0, t.Totals.Findings)
	for _, b := range t.order {
		out = append(out, b.Findings...)
	}
	return out
}

// assignIDs numbers the findings from 1 in bucket order, the order the
// feature files list them in.
func (t *Table) assignIDs() {
	id := 0
	for _, b := range t.order {
		for _, f := range b.Findings {
			id++
			f.ID = id
		}
	}
}

// FileResult is what classifying one file produced.
type FileResult struct {
	Path    string
	Stats   CodeStats
	Catches []*finding.Finding
	Calls   []*finding.Finding
}

// Result is the merged outcome of a run.
type Result struct {
	Files   int
	Stats   CodeStats
	Catches *Table
	Calls   *Table
}

// Merge folds per-file results, in the order given, into one result and
// numbers its findings.
func Merge(files []FileResult) *Result {
	r := &Result{
		Catches: NewTable(finding.KindCatch),
		Calls:   NewTable(finding.KindGuardedCall),
	}
	for _, fr := range files {
		r.Files++
		r.Stats.Add(fr.Stats)
		for _, f := range fr.Catches {
			r.Catches.Add(f)
		}
		for _, f := range fr.Calls {
			r.Calls.Add(f)
		}
	}
	r.Catches.assignIDs()
	r.Calls.assignIDs()
	return r
}
