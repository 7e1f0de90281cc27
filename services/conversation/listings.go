package conversation

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"villagestay/models"
	"villagestay/utils"

	"go.uber.org/zap"
)

// showListings renders the browse page, optionally filtered by a search
// query, and moves the session into browse mode.
func (e *Engine) showListings(ctx context.Context, t *turn, searchQuery string) string {
	var (
		listings []models.Listing
		err      error
	)
	if searchQuery != "" {
		listings, err = e.Inventory.Search(searchQuery)
	} else {
		listings, err = e.Inventory.Featured()
	}
	if err != nil {
		utils.GetLogger().Error("showListings: inventory query failed",
			zap.String("query", searchQuery), zap.Error(err))
		return "Sorry, I couldn't fetch the listings right now. Please try again."
	}
	if len(listings) == 0 {
		return "😔 No listings found. Try a different search or browse all listings!"
	}

	header := "Featured Rural Experiences"
	if searchQuery != "" {
		header = "Search Results"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏡 *%s*\n\n", header)
	sb.WriteString(listingLines(listings))
	fmt.Fprintf(&sb, "Reply with a number (1-%d) to see details, or:\n", len(listings))
	sb.WriteString("🔍 Type \"search [keyword]\" to find specific experiences\n")
	sb.WriteString("🏠 Type \"menu\" to return to main menu")

	t.sess.SetStep(models.StepBrowseListings)
	t.sess.CurrentListings = listings
	return sb.String()
}

func (e *Engine) handleBrowseListings(ctx context.Context, t *turn) string {
	input := strings.ToLower(t.input)

	if strings.HasPrefix(input, "search ") {
		return e.showListings(ctx, t, strings.TrimPrefix(input, "search "))
	}
	if input == "browse all" {
		return e.showListings(ctx, t, "")
	}
	if input == "menu" {
		return e.returnToMenu(ctx, t)
	}

	choice, err := strconv.Atoi(input)
	if err != nil || choice < 1 || choice > len(t.sess.CurrentListings) {
		return `Please select a valid number from the list or type "menu" to go back.`
	}
	return e.showListingDetails(ctx, t, t.sess.CurrentListings[choice-1])
}

func (e *Engine) showListingDetails(ctx context.Context, t *turn, listing models.Listing) string {
	host, _ := e.Inventory.Host(listing.HostID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏡 *%s*\n\n", listing.Title)
	fmt.Fprintf(&sb, "📍 *Location:* %s\n", listing.Location)
	fmt.Fprintf(&sb, "💰 *Price:* ₹%s per night\n", amount(listing.PricePerNight))
	fmt.Fprintf(&sb, "🏠 *Type:* %s\n", listing.PropertyTypeLabel())
	fmt.Fprintf(&sb, "👥 *Max Guests:* %d\n", listing.MaxGuests)
	fmt.Fprintf(&sb, "⭐ *Rating:* %s/5 (%d reviews)\n\n", amount(listing.Rating), listing.ReviewCount)

	description := listing.Description
	if len(description) > 300 {
		description = description[:300] + "..."
	}
	fmt.Fprintf(&sb, "📝 *Description:*\n%s\n\n", description)

	if len(listing.Amenities) > 0 {
		sb.WriteString("🎯 *Top Amenities:*\n")
		top := listing.Amenities
		if len(top) > 5 {
			top = top[:5]
		}
		for _, amenity := range top {
			fmt.Fprintf(&sb, "• %s\n", amenity)
		}
		if len(listing.Amenities) > 5 {
			fmt.Fprintf(&sb, "• And %d more...\n", len(listing.Amenities)-5)
		}
		sb.WriteString("\n")
	}

	if len(listing.SustainabilityFeatures) > 0 {
		sb.WriteString("🌱 *Eco-Friendly Features:*\n")
		for _, feature := range listing.SustainabilityFeatures {
			fmt.Fprintf(&sb, "• %s\n", feature)
		}
		sb.WriteString("\n")
	}

	if host != nil {
		fmt.Fprintf(&sb, "👤 *Host:* %s\n\n", host.FullName)
	}

	sb.WriteString("*What would you like to do?*\n")
	sb.WriteString("1️⃣ Book this experience\n")
	sb.WriteString("2️⃣ Ask questions about this place\n")
	sb.WriteString("3️⃣ See similar listings\n")
	sb.WriteString("4️⃣ Back to listings\n")
	sb.WriteString("🏠 Type \"menu\" for main menu")

	t.sess.SetStep(models.StepListingDetails)
	t.sess.SelectedListing = &listing
	return sb.String()
}

func (e *Engine) handleListingDetails(ctx context.Context, t *turn) string {
	choice := strings.ToLower(t.input)

	switch {
	case choice == "1" || strings.Contains(choice, "book"):
		return e.startBookingFlow(ctx, t)
	case choice == "2" || strings.Contains(choice, "question"):
		return e.startListingQuestions(ctx, t)
	case choice == "3" || strings.Contains(choice, "similar"):
		return e.showSimilarListings(ctx, t)
	case choice == "4" || strings.Contains(choice, "back"):
		return e.showListings(ctx, t, "")
	case choice == "menu":
		return e.returnToMenu(ctx, t)
	default:
		return `Please select 1, 2, 3, 4, or type "menu" to go back.`
	}
}

func (e *Engine) showSimilarListings(ctx context.Context, t *turn) string {
	listings, err := e.Inventory.Similar(*t.sess.SelectedListing)
	if err != nil {
		utils.GetLogger().Error("showSimilarListings: query failed", zap.Error(err))
		return `Sorry, couldn't find similar listings right now. Type "browse" to see all properties.`
	}
	if len(listings) == 0 {
		return `No similar listings found. Type "browse" to see all available properties.`
	}

	var sb strings.Builder
	sb.WriteString("🏡 *Similar Experiences*\n\n")
	sb.WriteString(listingLines(listings))
	fmt.Fprintf(&sb, "Reply with a number (1-%d) to see details, or:\n", len(listings))
	sb.WriteString("🔍 Type \"search [keyword]\" to find specific experiences\n")
	sb.WriteString("🏠 Type \"menu\" to return to main menu")

	t.sess.SetStep(models.StepBrowseListings)
	t.sess.CurrentListings = listings
	return sb.String()
}
