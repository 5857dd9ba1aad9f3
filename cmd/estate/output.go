package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rajivgeraev/estatepro/internal/media"
	"github.com/rajivgeraev/estatepro/internal/models"
)

// printProperties выводит объекты таблицей, отмечая избранные звёздочкой
func printProperties(w io.Writer, items []models.Property, isFavorite func(int64) bool) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No properties found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTITLE\tCITY\tTYPE\tPRICE\tSURFACE\tSTATUS")
	for _, p := range items {
		mark := ""
		if isFavorite != nil && isFavorite(p.ID) {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s m²\t%s\n",
			mark, p.ID, p.Title, p.City, p.PropertyType, formatPrice(p.Price), trimFloat(p.Surface), p.Status)
	}
	tw.Flush()
}

// printProperty выводит карточку объекта
func printProperty(w io.Writer, p *models.Property, favorite bool, resolver media.Resolver) {
	fmt.Fprintf(w, "#%d %s\n", p.ID, p.Title)
	if favorite {
		fmt.Fprintln(w, "★ in your favorites")
	}
	fmt.Fprintf(w, "Price:    %s\n", formatPrice(p.Price))
	fmt.Fprintf(w, "Surface:  %s m²\n", trimFloat(p.Surface))
	fmt.Fprintf(w, "Type:     %s\n", p.PropertyType)
	fmt.Fprintf(w, "City:     %s\n", p.City)
	if p.Address != nil {
		fmt.Fprintf(w, "Address:  %s\n", *p.Address)
	}
	if p.Bedrooms != nil {
		fmt.Fprintf(w, "Bedrooms: %d\n", *p.Bedrooms)
	}
	if p.Bathrooms != nil {
		fmt.Fprintf(w, "Baths:    %d\n", *p.Bathrooms)
	}
	fmt.Fprintf(w, "Status:   %s\n", p.Status)
	agent := p.Agent.Name + " <" + p.Agent.Email + ">"
	if p.Agent.Phone != nil {
		agent += " " + *p.Agent.Phone
	}
	fmt.Fprintf(w, "Agent:    %s\n", agent)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", *p.Description)
	}
	if len(p.Images) > 0 {
		fmt.Fprintln(w, "\nImages:")
		for _, img := range p.Images {
			fmt.Fprintf(w, "  %s\n", resolver.Resolve(img))
		}
	}
}

// printUsers выводит пользователей таблицей
func printUsers(w io.Writer, users []models.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tROLE")
	for _, u := range users {
		phone := "-"
		if u.Phone != nil {
			phone = *u.Phone
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, phone, u.Role)
	}
	tw.Flush()
}

// formatPrice форматирует цену в долларах с разделителями тысяч
func formatPrice(v float64) string {
	whole := strconv.FormatInt(int64(v), 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return "$" + b.String()
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
