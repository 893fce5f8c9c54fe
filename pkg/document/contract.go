package document

import (
	"fmt"
	"strings"

	"protoreg/pkg/prototype"
)

// Parties names the two signatories of a contract.
type Parties struct {
	A string `json:"party_a"`
	B string `json:"party_b"`
}

// Term is a keyed contract term.
type Term struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Contract is a document generated from parties, terms and clauses.
type Contract struct {
	Document
	ContractType string   `json:"contract_type"`
	Parties      Parties  `json:"parties"`
	Terms        []Term   `json:"terms,omitempty"`
	Clauses      []string `json:"clauses,omitempty"`
}

// NewContract constructs a contract and renders its initial content.
func NewContract(title, contractType string, opts ...Option) *Contract {
	if contractType == "" {
		contractType = "service"
	}
	c := &Contract{
		Document:     Document{Title: title, Tags: []string{}},
		ContractType: contractType,
	}
	c.init(opts)
	c.Render()
	return c
}

// Kind reports KindContract.
func (c *Contract) Kind() Kind { return KindContract }

// Base returns the embedded document.
func (c *Contract) Base() *Document { return &c.Document }

// Clone returns an independent *Contract.
func (c *Contract) Clone() Template {
	return &Contract{
		Document:     *c.Document.cloneDocument(),
		ContractType: c.ContractType,
		Parties:      c.Parties,
		Terms:        prototype.CloneSlice(c.Terms),
		Clauses:      prototype.CloneSlice(c.Clauses),
	}
}

// SetParties names both parties and regenerates the content.
func (c *Contract) SetParties(a, b string) {
	c.Parties = Parties{A: a, B: b}
	c.Render()
	c.touch()
}

// AddTerm sets a term, replacing the value of an existing key in place.
func (c *Contract) AddTerm(key, value string) {
	replaced := false
	for i := range c.Terms {
		if c.Terms[i].Key == key {
			c.Terms[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		c.Terms = append(c.Terms, Term{Key: key, Value: value})
	}
	c.Render()
	c.touch()
}

// Term returns the value of the named term.
func (c *Contract) Term(key string) (string, bool) {
	for _, t := range c.Terms {
		if t.Key == key {
			return t.Value, true
		}
	}
	return "", false
}

// AddClause appends a clause and regenerates the content.
func (c *Contract) AddClause(clause string) {
	c.Clauses = append(c.Clauses, clause)
	c.Render()
	c.touch()
}

// Render regenerates Content and makes sure the contract tags are present.
func (c *Contract) Render() {
	var b strings.Builder
	fmt.Fprintf(&b, "CONTRACT: %s\n", c.Title)
	fmt.Fprintf(&b, "Type: %s Agreement\n\n", titleCase(c.ContractType))
	b.WriteString("PARTIES:\n")
	fmt.Fprintf(&b, "Party A: %s\n", c.Parties.A)
	fmt.Fprintf(&b, "Party B: %s\n\n", c.Parties.B)
	b.WriteString("TERMS AND CONDITIONS:\n")
	if len(c.Terms) == 0 {
		b.WriteString("Terms to be defined...\n")
	}
	for _, t := range c.Terms {
		fmt.Fprintf(&b, "- %s: %s\n", t.Key, t.Value)
	}
	b.WriteString("\nCLAUSES:\n")
	if len(c.Clauses) == 0 {
		b.WriteString("Clauses to be added...\n")
	}
	for i, clause := range c.Clauses {
		fmt.Fprintf(&b, "%d. %s\n", i+1, clause)
	}
	if c.Metadata != nil {
		fmt.Fprintf(&b, "\nDate: %s\n", c.Metadata.CreatedAt.Format("2006-01-02"))
	}
	c.Content = b.String()
	c.ensureTags("contract", c.ContractType, "legal")
}

// Summary renders a one-line description.
func (c *Contract) Summary() string {
	return fmt.Sprintf("Contract: '%s' (%s, %d terms, %d clauses)", c.Title, c.ContractType, len(c.Terms), len(c.Clauses))
}
