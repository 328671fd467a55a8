package agent

import (
	"context"
	"fmt"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the front model in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and keep context of your previous questions.

			The user is here to understand his portfolio: what he holds, what he
			gained or lost, and what he owes taxes on. Check the portfolio first
			to understand his asset symbols before answering.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAccountant returns the expert in charge of reading the user's ledger.
// The loader is called on each tool invocation so the expert always sees the
// current state of the portfolio on disk.
func NewAccountant(load func() (*holdings.Ledger, error)) *Expert {
	lib := []Function{summaryFunc(load), salesFunc(load), taxFunc(load)}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He reads the user's transaction ledger and
		computes positions, realized gains, sales detail and tax figures from it.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an accountant in charge of the user's transaction ledger.
				Use the available tools to extract information about the portfolio:
				  - Summary: open positions and realized results per asset
				  - Sales: the detail of every past sale
				  - Tax: realized gains grouped by asset and year
				Answer precisely from the figures the tools return.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// errResponse wraps an error into a function response.
func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": output,
		},
	}
}

func summaryFunc(load func() (*holdings.Ledger, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Summary",
			Description: `Summary returns a markdown table of the portfolio: per asset the open
			quantity, average cost, invested amount and realized gain, with totals.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted summary of the portfolio.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			ledger, err := load()
			if err != nil {
				return errResponse(id, "Summary", err)
			}
			summary, err := holdings.Summarize(ledger, nil)
			if summary == nil {
				return errResponse(id, "Summary", err)
			}
			return okResponse(id, "Summary", renderer.SummaryMarkdown(summary))
		},
	}
}

func salesFunc(load func() (*holdings.Ledger, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Sales",
			Description: `Sales returns a markdown table with one row per past sale: quantity,
			average cost of the sold shares, sale price and realized gain.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of all sales.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			sales, err := allSales(load)
			if err != nil {
				return errResponse(id, "Sales", err)
			}
			return okResponse(id, "Sales", renderer.SalesMarkdown(sales))
		},
	}
}

func taxFunc(load func() (*holdings.Ledger, error)) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Tax",
			Description: `Tax returns a markdown table of realized gains grouped by asset and
			calendar year of the sale, as needed for the tax declaration.`,
			Parameters: &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted tax report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			fragments, err := allFragments(load)
			if err != nil {
				return errResponse(id, "Tax", err)
			}
			return okResponse(id, "Tax", renderer.TaxMarkdown(holdings.TaxYears(fragments)))
		},
	}
}

func allFragments(load func() (*holdings.Ledger, error)) ([]holdings.RealizationFragment, error) {
	ledger, err := load()
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	var fragments []holdings.RealizationFragment
	for asset := range ledger.Assets() {
		_, f, err := ledger.Replay(asset)
		if err != nil && !holdings.IsOversell(err) {
			return nil, err
		}
		fragments = append(fragments, f...)
	}
	return fragments, nil
}

func allSales(load func() (*holdings.Ledger, error)) ([]holdings.SaleSummary, error) {
	fragments, err := allFragments(load)
	if err != nil {
		return nil, err
	}
	return holdings.BySale(fragments), nil
}
