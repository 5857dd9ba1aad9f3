package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajivgeraev/estatepro/internal/media"
	"github.com/rajivgeraev/estatepro/internal/models"
)

func TestFormatPrice(t *testing.T) {
	cases := map[float64]string{
		0:         "$0",
		950:       "$950",
		1000:      "$1,000",
		175000:    "$175,000",
		1250000.4: "$1,250,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatPrice(in))
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"", "abc", "0", "-3"} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestCliNavigator(t *testing.T) {
	var out bytes.Buffer

	nav := &cliNavigator{command: "login", out: &out}
	assert.True(t, nav.OnLoginSurface())

	nav = &cliNavigator{command: "browse", out: &out}
	assert.False(t, nav.OnLoginSurface())
	nav.RedirectToLogin()
	assert.Contains(t, out.String(), "estate login")
}

func TestPrintPropertiesMarksFavorites(t *testing.T) {
	items := []models.Property{
		{ID: 1, Title: "Loft", City: "Austin", PropertyType: "apartment", Price: 250000, Surface: 72.5, Status: models.StatusPublished},
		{ID: 2, Title: "Villa", City: "Miami", PropertyType: "house", Price: 1200000, Surface: 300, Status: models.StatusPublished},
	}

	var out bytes.Buffer
	printProperties(&out, items, func(id int64) bool { return id == 2 })

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.NotContains(t, string(lines[1]), "*")
	assert.Contains(t, string(lines[1]), "72.5 m²")
	assert.Contains(t, string(lines[2]), "*")
	assert.Contains(t, string(lines[2]), "$1,200,000")
}

func TestPrintPropertiesEmpty(t *testing.T) {
	var out bytes.Buffer
	printProperties(&out, nil, nil)
	assert.Equal(t, "No properties found.\n", out.String())
}

func TestPrintPropertyResolvesImages(t *testing.T) {
	p := &models.Property{
		ID:     7,
		Title:  "Cottage",
		Images: []string{"uploads/7/image_1.jpg"},
		Agent:  models.PropertyAgent{Name: "Agent", Email: "agent@realestate.pro"},
	}

	var out bytes.Buffer
	printProperty(&out, p, true, media.NewBaseURLResolver("http://localhost:8000/"))

	assert.Contains(t, out.String(), "in your favorites")
	assert.Contains(t, out.String(), "http://localhost:8000/uploads/7/image_1.jpg")
}

func TestExecuteClosesAppAfterFailedCommand(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"theme", "sepia"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := execute()
	require.Error(t, err)
	assert.Nil(t, application)
}

func TestPropertyFromFlags(t *testing.T) {
	flags := mineCreateCmd.Flags()
	require.NoError(t, flags.Set("price", "310000"))
	require.NoError(t, flags.Set("surface", "95.5"))
	require.NoError(t, flags.Set("city", "Miami"))
	require.NoError(t, flags.Set("type", "condo"))
	require.NoError(t, flags.Set("bedrooms", "2"))
	require.NoError(t, flags.Set("publish", "true"))

	in, err := propertyFromFlags(mineCreateCmd, "Ocean View")
	require.NoError(t, err)
	assert.Equal(t, "Ocean View", in.Title)
	assert.Equal(t, 95.5, in.Surface)
	assert.Equal(t, models.PropertyCondo, in.PropertyType)
	assert.Equal(t, models.StatusPublished, in.Status)
	require.NotNil(t, in.Bedrooms)
	assert.Equal(t, 2, *in.Bedrooms)
	assert.Nil(t, in.Bathrooms)
	assert.Nil(t, in.Address)

	require.NoError(t, flags.Set("type", "castle"))
	_, err = propertyFromFlags(mineCreateCmd, "Ocean View")
	assert.Error(t, err)
}
