package cfg

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// Graph builds an interactive force-directed chart of the blocks.
func Graph(title string, blocks []Block) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d basic blocks", len(blocks)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes, links := graphData(blocks)
	graph.AddSeries("blocks", nodes, links).SetSeriesOptions(
		charts.WithGraphChartOpts(opts.GraphChart{
			Force:  &opts.GraphForce{Repulsion: 800, Gravity: 0.2},
			Layout: "force",
			Roam:   opts.Bool(true),
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
	)
	return graph
}

func graphData(blocks []Block) ([]opts.GraphNode, []opts.GraphLink) {
	nodes := make([]opts.GraphNode, 0, len(blocks))
	var links []opts.GraphLink

	known := make(map[uint64]bool, len(blocks))
	for _, block := range blocks {
		known[block.Start] = true
		nodes = append(nodes, opts.GraphNode{
			Name: nodeName(block.Start),
			Tooltip: &opts.Tooltip{
				Show:      opts.Bool(true),
				Formatter: types.FuncStr(fmt.Sprintf("0x%x..0x%x, %d instructions", block.Start, block.End, block.Len())),
			},
		})
	}
	for _, block := range blocks {
		for _, succ := range block.Successors {
			if !known[succ] {
				continue
			}
			links = append(links, opts.GraphLink{Source: nodeName(block.Start), Target: nodeName(succ)})
		}
		if next, ok := block.FallThrough(blocks); ok {
			links = append(links, opts.GraphLink{
				Source:    nodeName(block.Start),
				Target:    nodeName(next),
				LineStyle: &opts.LineStyle{Type: "dashed"},
			})
		}
	}
	return nodes, links
}

func nodeName(addr uint64) string {
	return fmt.Sprintf("0x%x", addr)
}

// RenderHTML writes a standalone HTML page containing the block graph.
func RenderHTML(w io.Writer, title string, blocks []Block) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(Graph(title, blocks))
	return page.Render(w)
}
