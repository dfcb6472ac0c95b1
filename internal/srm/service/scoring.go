package service

import (
	"math"

	"github.com/bitfantasy/nimo-wms/internal/srm/entity"
)

// OfferScoreResult 单条供货条款的评分结果
type OfferScoreResult struct {
	OfferID       string
	CostScore     float64
	QuantityScore float64
	OverallScore  float64
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizedScore 归一化评分。数值越低分越高，无差异时全员5分，
// 活跃报价的取值区间正好是[1,5]
func normalizedScore(value, min, max float64) float64 {
	if max == min {
		return 5.0
	}
	return round2(5.0 - 4.0*(value-min)/(max-min))
}

// computeOfferScores 对一个商品的全部供货条款计算评分。
// 归一化区间只取活跃报价，非活跃报价固定(0,0,0)。
// 返回nil表示该商品没有任何报价（调用方应清除残留评分）
func computeOfferScores(offers []entity.SupplyOffer) []OfferScoreResult {
	if len(offers) == 0 {
		return nil
	}

	var active []entity.SupplyOffer
	for _, o := range offers {
		if o.IsActive {
			active = append(active, o)
		}
	}

	results := make([]OfferScoreResult, 0, len(offers))

	// 全部非活跃: 所有报价零分
	if len(active) == 0 {
		for _, o := range offers {
			results = append(results, OfferScoreResult{OfferID: o.ID})
		}
		return results
	}

	minCost := active[0].Cost.InexactFloat64()
	maxCost := minCost
	minQty := float64(active[0].MinOrderQty)
	maxQty := minQty
	for _, o := range active[1:] {
		cost := o.Cost.InexactFloat64()
		if cost < minCost {
			minCost = cost
		}
		if cost > maxCost {
			maxCost = cost
		}
		qty := float64(o.MinOrderQty)
		if qty < minQty {
			minQty = qty
		}
		if qty > maxQty {
			maxQty = qty
		}
	}

	for _, o := range offers {
		if !o.IsActive {
			results = append(results, OfferScoreResult{OfferID: o.ID})
			continue
		}

		costScore := normalizedScore(o.Cost.InexactFloat64(), minCost, maxCost)
		qtyScore := normalizedScore(float64(o.MinOrderQty), minQty, maxQty)

		results = append(results, OfferScoreResult{
			OfferID:       o.ID,
			CostScore:     costScore,
			QuantityScore: qtyScore,
			// 成本主导排名，起订量只做细分
			OverallScore: round2(0.9*costScore + 0.1*qtyScore),
		})
	}
	return results
}

// computeSupplierScores 全局重算供应商的信用分与配送成本分。
// min==max时分母按1处理，避免除零，该指标退化为常量偏移
func computeSupplierScores(suppliers []entity.Supplier) {
	if len(suppliers) == 0 {
		return
	}

	minCredit := float64(suppliers[0].CreditDays)
	maxCredit := minCredit
	minDelivery := suppliers[0].DeliveryCost
	maxDelivery := minDelivery
	for _, s := range suppliers[1:] {
		credit := float64(s.CreditDays)
		if credit < minCredit {
			minCredit = credit
		}
		if credit > maxCredit {
			maxCredit = credit
		}
		if s.DeliveryCost < minDelivery {
			minDelivery = s.DeliveryCost
		}
		if s.DeliveryCost > maxDelivery {
			maxDelivery = s.DeliveryCost
		}
	}

	spreadCredit := maxCredit - minCredit
	if spreadCredit == 0 {
		spreadCredit = 1
	}
	spreadDelivery := maxDelivery - minDelivery
	if spreadDelivery == 0 {
		spreadDelivery = 1
	}

	for i := range suppliers {
		s := &suppliers[i]
		// 账期越长分越高
		s.CreditScore = round2(1 + 4*(float64(s.CreditDays)-minCredit)/spreadCredit)
		// 配送越便宜分越高
		s.CostDeliveryScore = round2(5 - 4*(s.DeliveryCost-minDelivery)/spreadDelivery)
	}
}
