package cli

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/brainsite/internal/catalog"
	"github.com/rcliao/brainsite/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "svg",
		Short: "Render a view's region map as SVG",
		RunE:  runSVG,
	}

	cmd.Flags().String("view", catalog.ViewHeader, "View to render: header or explorer")
	cmd.Flags().StringP("out", "o", "", "Output file (default: stdout)")
	cmd.Flags().Int("width", 400, "viewBox width")
	cmd.Flags().Int("height", 300, "viewBox height")

	RootCmd.AddCommand(cmd)
}

type svgDoc struct {
	XMLName xml.Name  `xml:"svg"`
	NS      string    `xml:"xmlns,attr"`
	ViewBox string    `xml:"viewBox,attr"`
	Groups  []svgPath `xml:"g"`
}

type svgPath struct {
	ID    string   `xml:"id,attr"`
	Title string   `xml:"title"`
	Path  svgShape `xml:"path"`
	Label svgText  `xml:"text"`
}

type svgShape struct {
	D           string  `xml:"d,attr"`
	Fill        string  `xml:"fill,attr"`
	FillOpacity float64 `xml:"fill-opacity,attr"`
	Stroke      string  `xml:"stroke,attr"`
}

type svgText struct {
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Anchor string  `xml:"text-anchor,attr"`
	Size   int     `xml:"font-size,attr"`
	Fill   string  `xml:"fill,attr"`
	Text   string  `xml:",chardata"`
}

// renderSVG draws each region's path with its label at the view position,
// which is a percentage of the viewBox.
func renderSVG(w io.Writer, regions []model.RegionView, width, height int) error {
	doc := svgDoc{
		NS:      "http://www.w3.org/2000/svg",
		ViewBox: fmt.Sprintf("0 0 %d %d", width, height),
	}
	for _, r := range regions {
		doc.Groups = append(doc.Groups, svgPath{
			ID:    "region-" + r.ID,
			Title: r.Name + " (" + r.Area + ")",
			Path:  svgShape{D: r.Path, Fill: r.Color, FillOpacity: 0.35, Stroke: r.Color},
			Label: svgText{
				X:      r.Position.X * float64(width) / 100,
				Y:      r.Position.Y * float64(height) / 100,
				Anchor: "middle",
				Size:   10,
				Fill:   r.Color,
				Text:   r.Name,
			},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func runSVG(cmd *cobra.Command, args []string) error {
	view, _ := cmd.Flags().GetString("view")
	outPath, _ := cmd.Flags().GetString("out")
	width, _ := cmd.Flags().GetInt("width")
	height, _ := cmd.Flags().GetInt("height")

	cat, err := loadCatalog()
	if err != nil {
		return cmdErr("load content", err)
	}
	regions, err := cat.RegionViews(view)
	if err != nil {
		return cmdErr("svg", err)
	}

	w := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return cmdErr("create output", err)
		}
		defer f.Close()
		w = f
	}

	if err := renderSVG(w, regions, width, height); err != nil {
		return cmdErr("render svg", err)
	}
	return nil
}
