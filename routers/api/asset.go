package api

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ReelsWizard-server/config"

	"github.com/gin-gonic/gin"
)

// Background music lives on disk under Assets.BGMDir, one subdirectory per
// mood, served through the /static file route.

// ListBGM groups the available tracks by mood.
// GET /api/bgm-list
func ListBGM(c *gin.Context) {
	root := config.AppConfig.Assets.BGMDir
	moods, err := os.ReadDir(root)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "read bgm dir failed: " + err.Error()})
		return
	}

	out := map[string][]string{}
	for _, mood := range moods {
		if !mood.IsDir() {
			continue
		}
		tracks, err := listMoodTracks(root, mood.Name())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out[mood.Name()] = tracks
	}
	c.JSON(http.StatusOK, gin.H{"bgm": out})
}

// ListBGMByMood lists the tracks for one mood.
// GET /api/bgm/:mood
func ListBGMByMood(c *gin.Context) {
	mood := c.Param("mood")
	// defend the path join against traversal
	if mood != filepath.Base(mood) || strings.HasPrefix(mood, ".") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mood"})
		return
	}
	tracks, err := listMoodTracks(config.AppConfig.Assets.BGMDir, mood)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown mood: " + mood})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mood": mood, "tracks": tracks})
}

func listMoodTracks(root, mood string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, mood))
	if err != nil {
		return nil, err
	}
	tracks := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".mp3", ".wav", ".m4a", ".ogg":
			tracks = append(tracks, filepath.ToSlash(filepath.Join(mood, e.Name())))
		}
	}
	sort.Strings(tracks)
	return tracks, nil
}
