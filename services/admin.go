package services

import (
	"sort"
	"strings"

	"mimi-order/models"
)

// Query returns the orders for day whose name, phone or any item name
// contains q, newest first. The match is a plain case-sensitive substring
// and an empty q matches every order of the day.
func Query(orders []models.Order, day, q string) []models.Order {
	out := make([]models.Order, 0)
	for _, o := range orders {
		if o.Day != day {
			continue
		}
		if matches(o, q) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func matches(o models.Order, q string) bool {
	if strings.Contains(o.Name, q) || strings.Contains(o.Phone, q) {
		return true
	}
	for _, it := range o.Items {
		if strings.Contains(it.Name, q) {
			return true
		}
	}
	return false
}

// Summarize counts the orders and revenue for one day.
func Summarize(orders []models.Order, day string) models.DailyStats {
	s := models.DailyStats{Day: day, ByType: make(map[models.OrderType]int)}
	for _, o := range orders {
		if o.Day != day {
			continue
		}
		s.OrdersCount++
		s.Revenue += o.Total
		s.ByType[o.Type]++
		for _, it := range o.Items {
			s.ItemsCount += it.Qty
		}
	}
	return s
}
