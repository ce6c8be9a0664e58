// trellis-demo: interactive demos of the trellis tree UI framework.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	trellis "github.com/trellisui/trellis"
)

var themePath string

var rootCmd = &cobra.Command{
	Use:   "trellis-demo",
	Short: "Interactive demos of the trellis console UI framework",
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Hover a tree with tooltips; y yanks the text to the clipboard",
	Run: func(cmd *cobra.Command, args []string) {
		host := trellis.NewTeaHost(loadTheme())
		session := trellis.NewSession(host)

		root := trellis.NewElement("demo", "")
		root.AddChild(trellis.NewElement("title", "trellis demo\n\n").Styled(trellis.Fixed("title")))

		services := []struct {
			Name   string
			Status string
			Detail string
		}{
			{"gateway", "up", "edge proxy\n4 instances, p99 12ms"},
			{"billing", "degraded", "invoice worker backlog: 142 jobs"},
			{"search", "up", "index 2.1G, last rebuild 04:00"},
		}
		for _, svc := range services {
			row := root.AddChild(trellis.NewElement("service", ""))
			label := row.AddChild(trellis.NewElement("name", svc.Name))
			label.SetHighlightable(true)
			label.SetTooltip(trellis.NewElement("detail", svc.Detail))
			status := svc.Status
			row.AddChild(trellis.NewElement("status", "  ["+status+"]\n").Styled(trellis.Computed(func(*trellis.Element) string {
				if status == "up" {
					return "accent"
				}
				return "error"
			})))
		}

		surface := host.CreateSurface()
		r := session.Attach(root, surface, trellis.AttachOptions{Keys: map[string]string{
			"y": "yank",
		}})
		root.On("yank", func(...string) {
			_ = clipboard.WriteAll(root.Flatten())
		})
		r.Render()

		model := trellis.NewTeaModel(host, session, surface)
		model.Footer = "j/k move  y yank  q quit"
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			log.Fatal(err)
		}
		session.Close()
	},
}

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Multi-select checklist built on the framework",
	Run: func(cmd *cobra.Command, args []string) {
		host := trellis.NewTeaHost(loadTheme())
		session := trellis.NewSession(host)

		choices := []string{"gateway", "billing", "search", "mailer", "reports"}
		var picked, skipped []string

		surface := host.CreateSurface()
		trellis.SelectMany(session, surface, choices, trellis.SelectOptions[string]{
			TooltipFor: func(c string) string { return "restart " + c },
			StartSelected: func(c string) bool {
				return c != "reports"
			},
		}, func(selected, unselected []string) {
			picked, skipped = selected, unselected
		})

		model := trellis.NewTeaModel(host, session, surface)
		model.Footer = "j/k move  tab toggle  enter confirm  q quit"
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			log.Fatal(err)
		}
		session.Close()

		fmt.Println("selected:  ", picked)
		fmt.Println("unselected:", skipped)
	},
}

func loadTheme() *trellis.Theme {
	if themePath == "" {
		return trellis.DefaultTheme()
	}
	theme, err := trellis.LoadThemeFile(themePath)
	if err != nil {
		log.Fatal(err)
	}
	return theme
}

func main() {
	rootCmd.PersistentFlags().StringVar(&themePath, "theme", "", "YAML theme file")
	rootCmd.AddCommand(treeCmd, selectCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
