package handlers

import (
	"ewaste-collection-service/internal/api/dto"
	"ewaste-collection-service/internal/domain"
	"ewaste-collection-service/internal/services"
)

func pickupResponse(p *domain.PickupRequest) dto.PickupResponse {
	items := make([]dto.PickupItemPayload, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PickupItemPayload{
			Type:        it.Type,
			WeightGrams: it.WeightGrams,
			Description: it.Description,
		})
	}

	var lat, lng *float64
	if p.Location != nil {
		lat, lng = &p.Location.Lat, &p.Location.Lng
	}

	return dto.PickupResponse{
		PickupID:         p.ID,
		UserID:           p.UserID,
		Area:             p.Area,
		Address:          p.Address,
		EwasteType:       p.EwasteType,
		Description:      p.Description,
		WeightGrams:      p.WeightGrams,
		Items:            items,
		Latitude:         lat,
		Longitude:        lng,
		Status:           string(p.Status),
		ClusterID:        p.ClusterID,
		EngineerID:       p.EngineerID,
		FinalWeightGrams: p.FinalWeightGrams,
		EngineerPrice:    p.EngineerPrice,
		PaymentStatus:    p.PaymentStatus,
		CreatedAt:        p.CreatedAt,
	}
}

func clusterResponse(c *domain.CollectionCluster) dto.ClusterResponse {
	members := make([]dto.ClusterMemberResponse, 0, len(c.Members))
	for _, m := range c.Members {
		members = append(members, dto.ClusterMemberResponse{
			PickupID:             m.PickupID,
			WeightGrams:          m.WeightGrams,
			DistanceFromAnchorKm: m.DistanceFromAnchorKm,
		})
	}

	history := make([]dto.StatusChangeResponse, 0, len(c.History))
	for _, h := range c.History {
		history = append(history, dto.StatusChangeResponse{
			Status: string(h.Status),
			At:     h.At,
			Actor:  string(h.Actor),
		})
	}

	return dto.ClusterResponse{
		ClusterID:                c.ID,
		AnchorPickupID:           c.AnchorPickupID,
		AnchorLat:                c.AnchorLocation.Lat,
		AnchorLng:                c.AnchorLocation.Lng,
		Members:                  members,
		TotalWeightGrams:         c.TotalWeightGrams,
		DestinationHub:           c.DestinationHub,
		DistToHubKm:              c.DistToHubKm,
		RadiusUsedKm:             c.RadiusUsedKm,
		Status:                   string(c.Status),
		AdminOverride:            c.AdminOverride,
		EngineerID:               c.EngineerID,
		DriverID:                 c.DriverID,
		ScheduledFor:             c.ScheduledFor,
		EstimatedDurationMinutes: c.EstimatedDurationMinutes,
		RouteDistanceKm:          c.RouteDistanceKm,
		History:                  history,
		CreatedAt:                c.CreatedAt,
	}
}

func quoteResponse(q *services.Quote) dto.QuoteResponse {
	return dto.QuoteResponse{
		BaseRate:        q.BaseRate,
		ConditionFactor: q.ConditionFactor,
		AgeFactor:       q.AgeFactor,
		EstimatedValue:  q.EstimatedValue,
		Currency:        q.Currency,
	}
}

func invoiceResponses(invoices []*domain.Invoice) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, dto.InvoiceResponse{
			InvoiceNumber: inv.InvoiceNumber,
			RecipientID:   inv.RecipientID,
			RecipientRole: string(inv.RecipientRole),
			Amount:        inv.Amount,
			Currency:      inv.Currency,
			Percentage:    inv.Percentage,
			PickupID:      inv.PickupID,
			TransactionID: inv.TransactionID,
			Status:        inv.Status,
			CreatedAt:     inv.CreatedAt,
		})
	}
	return out
}
