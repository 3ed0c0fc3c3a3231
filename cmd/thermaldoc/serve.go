package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	thermaldoc "github.com/inkwell-labs/thermaldoc"
	"github.com/inkwell-labs/thermaldoc/document"
)

// runServe implements `serve [--listen host:port] [--device PATH]`,
// exposing Core's control surface (spec.md §6) over HTTP.
func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", ":8080", "address to listen on")
	device := fs.String("device", "", "serial path or Bluetooth MAC of the target printer")
	if err := fs.Parse(args); err != nil {
		return invalidArgs(err)
	}

	core, err := newCore(*device)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("request panic recovered", "panic", r, "path", c.Request.URL.Path)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	})
	if gin.Mode() == gin.DebugMode {
		router.Use(gin.Logger())
	}
	registerRoutes(router, core)

	srv := &http.Server{
		Addr:         *listen,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err, "addr", *listen)
			os.Exit(1)
		}
	}()
	slog.Info("thermaldoc serving", "addr", *listen)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func registerRoutes(router *gin.Engine, core *thermaldoc.Core) {
	router.POST("/v1/render_preview", func(c *gin.Context) {
		doc, err := bindDocument(c)
		if err != nil {
			return
		}
		png, err := core.RenderPreview(c.Request.Context(), doc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "image/png", png)
	})

	router.POST("/v1/print", func(c *gin.Context) {
		doc, err := bindDocument(c)
		if err != nil {
			return
		}
		slog.DebugContext(c.Request.Context(), "print requested", "components", len(doc.Components))
		result := core.Print(c.Request.Context(), doc)
		status := http.StatusOK
		if !result.Success {
			status = http.StatusUnprocessableEntity
			slog.Warn("print failed", "error", result.Error)
		}
		c.JSON(status, result)
	})

	router.POST("/v1/canvas_layout", func(c *gin.Context) {
		var envelope struct {
			Document    json.RawMessage `json:"document"`
			CanvasIndex int             `json:"canvas_index"`
		}
		if err := c.ShouldBindJSON(&envelope); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
		doc, err := document.ParseDocument(envelope.Document)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		layout, err := core.CanvasLayout(c.Request.Context(), doc, envelope.CanvasIndex)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, layout)
	})

	router.GET("/v1/patterns", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"patterns": core.Patterns()})
	})

	router.GET("/v1/patterns/:name/params", func(c *gin.Context) {
		info, err := core.PatternParams(c.Param("name"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	router.GET("/v1/patterns/:name/random", func(c *gin.Context) {
		seed := int64(0)
		if s := c.Query("seed"); s != "" {
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seed"})
				return
			}
			seed = v
		}
		info, err := core.PatternRandom(c.Param("name"), seed)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, info)
	})

	router.GET("/v1/profiles", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"active": core.GetActiveProfile(),
			"all":    core.ListProfiles(),
		})
	})

	router.PUT("/v1/profiles/active", func(c *gin.Context) {
		var pi thermaldoc.ProfileInfo
		if err := c.ShouldBindJSON(&pi); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, core.SetActiveProfile(pi))
	})
}

// bindDocument reads the request body and parses it with
// document.ParseDocument, writing a 400 response and returning a
// non-nil error if the body is missing or malformed. Using
// ParseDocument here rather than gin's generic ShouldBindJSON keeps
// the HTTP surface's document validation identical to the CLI's.
func bindDocument(c *gin.Context) (document.Document, error) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body: " + err.Error()})
		return document.Document{}, err
	}
	doc, err := document.ParseDocument(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return document.Document{}, err
	}
	return doc, nil
}
