package suggestion

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/futig/fundfacts/internal/config"
)

// Bank names
const (
	NoAnswer        = "no_answer"
	AdvisoryRefusal = "advisory_refusal"
)

var defaultNoAnswer = []string{
	"What is the expense ratio of HDFC Midcap Fund?",
	"How do I download my capital gains statement?",
	"What is the lock-in period for ELSS funds?",
	"What is the minimum SIP amount for HDFC Flexi Cap Fund?",
	"What is the exit load for HDFC Small Cap Fund?",
	"What is the riskometer rating of HDFC Large Cap Fund?",
}

var defaultAdvisoryRefusal = []string{
	"What is the expense ratio of HDFC Midcap Fund?",
	"What is the exit load for HDFC Small Cap Fund?",
	"How to download my account statement?",
	"What is the riskometer rating of HDFC Large Cap Fund?",
	"What is the minimum SIP amount?",
	"What is the lock-in period for ELSS funds?",
}

var defaultFundSpecific = map[string][]string{
	"midcap": {
		"What is the expense ratio of HDFC Midcap Fund?",
		"What is the benchmark for HDFC Midcap Fund?",
	},
	"elss": {
		"What is the lock-in period for ELSS funds?",
		"What is the tax benefit for ELSS investments?",
	},
	"flexi_cap": {
		"What is the minimum SIP amount for HDFC Flexi Cap Fund?",
		"What is the expense ratio of HDFC Flexi Cap Fund?",
	},
}

// Source yields random permutations. *rand.Rand satisfies it.
type Source interface {
	Perm(n int) []int
}

// Sampler draws suggestions without replacement from named banks.
type Sampler struct {
	mu    sync.Mutex
	src   Source
	banks map[string][]string
}

// NewSampler uses the built-in banks, replacing those the policy provides. policy and src may be nil.
func NewSampler(policy *config.SuggestionsPolicy, src Source) *Sampler {
	banks := map[string][]string{
		NoAnswer:        defaultNoAnswer,
		AdvisoryRefusal: defaultAdvisoryRefusal,
	}
	for name, bank := range defaultFundSpecific {
		banks[name] = bank
	}

	if policy != nil {
		if len(policy.NoAnswer) > 0 {
			banks[NoAnswer] = policy.NoAnswer
		}
		if len(policy.AdvisoryRefusal) > 0 {
			banks[AdvisoryRefusal] = policy.AdvisoryRefusal
		}
		for name, bank := range policy.FundSpecific {
			if len(bank) > 0 {
				banks[name] = bank
			}
		}
	}

	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.New(rand.NewPCG(now, now>>17))
	}

	return &Sampler{src: src, banks: banks}
}

// Bank returns a copy of the named bank. Unknown names fall back to the no-answer bank.
func (s *Sampler) Bank(name string) []string {
	return append([]string(nil), s.bank(name)...)
}

func (s *Sampler) bank(name string) []string {
	if bank, ok := s.banks[name]; ok {
		return bank
	}
	return s.banks[NoAnswer]
}

// Sample returns min(count, len(bank)) distinct entries of the named bank.
func (s *Sampler) Sample(name string, count int) []string {
	bank := s.bank(name)
	count = min(count, len(bank))
	if count <= 0 {
		return []string{}
	}

	s.mu.Lock()
	perm := s.src.Perm(len(bank))
	s.mu.Unlock()

	out := make([]string, count)
	for i := range out {
		out[i] = bank[perm[i]]
	}
	return out
}

func (s *Sampler) NoAnswerSuggestions(count int) []string {
	return s.Sample(NoAnswer, count)
}

func (s *Sampler) RefusalSuggestions(count int) []string {
	return s.Sample(AdvisoryRefusal, count)
}
