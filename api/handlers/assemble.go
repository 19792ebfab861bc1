package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aria-lang/contigflow/pkg/contigflow"
)

// ReadRequest is one read of an assembly request.
type ReadRequest struct {
	Name     string `json:"name"`
	Sequence string `json:"sequence"`
	// Quality is Phred+33 encoded.
	Quality string `json:"quality,omitempty"`
	Type    string `json:"type,omitempty"`
	Strain  int    `json:"strain,omitempty"`
	Rail    bool   `json:"rail,omitempty"`
}

// AssembleRequest represents an assembly request. The reads form one bin.
type AssembleRequest struct {
	Reads []ReadRequest `json:"reads"`
}

// ContigResponse describes one contig.
type ContigResponse struct {
	Name         string   `json:"name"`
	Consensus    string   `json:"consensus"`
	Length       int      `json:"length"`
	Reads        []string `json:"reads"`
	Merged       int      `json:"merged"`
	MeanCoverage float64  `json:"mean_coverage"`
	MaxCoverage  int      `json:"max_coverage"`
	FASTA        string   `json:"fasta"`
}

// AssembleResponse represents the response for an assembly.
type AssembleResponse struct {
	Contigs    []ContigResponse `json:"contigs"`
	Singlets   []string         `json:"singlets"`
	Rejections map[string]int   `json:"rejections"`
	N50        int              `json:"n50"`
}

// Assembler serves assembly requests with fixed options.
type Assembler struct {
	Options contigflow.Options
	// MaxReads bounds the reads of one request; 0 means no bound.
	MaxReads int
}

// NewAssembler returns an assembler using opts.
func NewAssembler(opts contigflow.Options, maxReads int) *Assembler {
	return &Assembler{Options: opts, MaxReads: maxReads}
}

func (a *Assembler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req AssembleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Reads) == 0 {
		writeError(w, http.StatusBadRequest, "reads are required")
		return
	}
	if a.MaxReads > 0 && len(req.Reads) > a.MaxReads {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%d reads exceed the limit of %d", len(req.Reads), a.MaxReads))
		return
	}

	bin, err := newBin(req.Reads)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reports, err := contigflow.Assemble(r.Context(), []contigflow.Bin{bin}, a.Options)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	seqs, err := contigflow.Consensus(reports)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	report := reports[0]
	resp := AssembleResponse{
		Contigs:    make([]ContigResponse, len(report.Contigs)),
		Singlets:   report.Singlets,
		Rejections: make(map[string]int, len(report.Rejections)),
	}
	for i, c := range report.Contigs {
		resp.Contigs[i] = ContigResponse{
			Name:         c.Name(),
			Consensus:    string(c.Consensus),
			Length:       len(c.Consensus),
			Reads:        c.Reads,
			Merged:       c.Merged,
			MeanCoverage: c.Coverage.MeanCoverage,
			MaxCoverage:  c.Coverage.MaxCoverage,
			FASTA:        seqs[i].ToFASTA(),
		}
	}
	for code, n := range report.Rejections {
		resp.Rejections[code.String()] = n
	}
	if report.Stats != nil {
		resp.N50 = report.Stats.N50
	}

	writeJSON(w, resp)
}

func newBin(reads []ReadRequest) (contigflow.Bin, error) {
	bin := contigflow.NewBin("request")
	for i, rr := range reads {
		name := rr.Name
		if name == "" {
			name = fmt.Sprintf("read%d", i+1)
		}
		read := &contigflow.Read{
			Name:   name,
			Bases:  []byte(rr.Sequence),
			Strain: rr.Strain,
			Rail:   rr.Rail,
		}
		if rr.Type != "" {
			st, err := contigflow.ParseSeqType(rr.Type)
			if err != nil {
				return bin, fmt.Errorf("read %s: %w", name, err)
			}
			read.SeqType = st
		}
		if rr.Quality != "" {
			q, err := contigflow.ParsePhred33(rr.Quality)
			if err != nil {
				return bin, fmt.Errorf("read %s: %w", name, err)
			}
			read.Quals = q
		}
		if _, err := bin.Pool.Add(read); err != nil {
			return bin, err
		}
	}
	return bin, nil
}
