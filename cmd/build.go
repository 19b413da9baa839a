package cmd

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/kissit/website/internal/config"
	"github.com/kissit/website/internal/site"
	"github.com/kissit/website/internal/web"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Exports the site as static HTML",
	Long: `The build command loads the content directory the same way serve does and
renders every page into the output directory (default './public/'): the landing
page, the project list, one page per short hash and a contact page that
forwards to the mailto: address. Static assets are copied to 'static/'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuildProcess(appConfig)
	},
}

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta http-equiv="refresh" content="0; url={{.}}">
  <title>Contact us | kissit</title>
</head>
<body><p><a href="{{.}}">Contact us</a></p></body>
</html>
`))

func runBuildProcess(cfg config.Config) error {
	gin.SetMode(gin.ReleaseMode)
	fmt.Println("Starting kissit build process...")
	fmt.Printf("Using ContentDir: '%s', StaticDir: '%s', OutputDir: '%s'\n", cfg.ContentDir, cfg.StaticDir, cfg.OutputDir)

	s, err := site.NewLoader(cfg).Load()
	if err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}
	srv, err := web.NewServer(cfg, s)
	if err != nil {
		return fmt.Errorf("failed to prepare templates: %w", err)
	}

	outputDir := cfg.OutputDir
	fmt.Printf("Cleaning output directory: %s\n", outputDir)
	if err := os.RemoveAll(outputDir); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); !os.IsNotExist(err) {
		dst := filepath.Join(outputDir, "static")
		fmt.Printf("Copying static assets from '%s' to '%s'\n", cfg.StaticDir, dst)
		if err := copyDirContents(cfg.StaticDir, dst); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
	} else {
		fmt.Printf("Static assets directory '%s' not found, skipping copy.\n", cfg.StaticDir)
	}

	if err := writePage(srv, outputDir, "", "entrypoint.html", srv.EntrypointData()); err != nil {
		return err
	}
	if err := writePage(srv, outputDir, "we-created", "projects.html", srv.ProjectsData()); err != nil {
		return err
	}

	// one file per hash; colliding names share the first project's page
	written := make(map[string]bool)
	for _, p := range s.Projects {
		h := site.ShortHash(p.Name)
		if written[h] {
			fmt.Printf("Warning: project '%s' shares hash %s with an earlier project, not exported.\n", p.Name, h)
			continue
		}
		written[h] = true
		if err := writePage(srv, outputDir, filepath.Join("we-created", h), "project.html", srv.ProjectData(p)); err != nil {
			return err
		}
	}

	if email := s.Global.Contact.Email; email != "" {
		if err := writeContactPage(outputDir, "mailto:"+email); err != nil {
			return err
		}
	} else {
		fmt.Println("Warning: contact.email is not set, skipping contact-us page.")
	}

	fmt.Printf("kissit build completed: %d project pages written to %s\n", len(written), outputDir)
	return nil
}

func writePage(srv *web.Server, outputDir, rel, page string, data interface{}) error {
	body, err := srv.Render(page, data)
	if err != nil {
		return err
	}
	outputPath := filepath.Join(outputDir, rel, "index.html")
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", outputPath, err)
	}
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", outputPath, err)
	}
	fmt.Printf("Successfully generated: %s using layout %s\n", outputPath, page)
	return nil
}

func writeContactPage(outputDir, mailto string) error {
	outputPath := filepath.Join(outputDir, "contact-us", "index.html")
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", outputPath, err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create '%s': %w", outputPath, err)
	}
	defer f.Close()
	if err := contactTemplate.Execute(f, template.URL(mailto)); err != nil {
		return fmt.Errorf("failed to write '%s': %w", outputPath, err)
	}
	return nil
}

// copyDirContents recursively copies contents from src to dst.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(path, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", path, dstPath, err)
		}
		return nil
	})
}

func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", srcFile, err)
	}
	defer srcF.Close()

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", srcFile, dstFile, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
