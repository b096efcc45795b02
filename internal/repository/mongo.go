package repository

import (
	"strings"

	"github.com/ashrafosamaa/gym-management-sys/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultPageSize = 10

func objectIDFromHex(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrInvalidID
	}
	return oid, nil
}

// findOptions translates pagination and "field asc|desc" sort expressions into
// driver options. defaultSort applies when no expression is given.
func findOptions(opts domain.ListOptions, defaultSort bson.D) *options.FindOptions {
	page := opts.Page
	if page < 1 {
		page = 1
	}
	size := opts.Size
	if size < 1 {
		size = defaultPageSize
	}

	f := options.Find().SetLimit(size).SetSkip((page - 1) * size)

	sort := defaultSort
	if parts := strings.Fields(opts.SortBy); len(parts) == 2 {
		dir := 1
		if parts[1] == "desc" {
			dir = -1
		}
		sort = bson.D{{Key: parts[0], Value: dir}}
	}
	if len(sort) > 0 {
		f.SetSort(sort)
	}
	return f
}

// regexFilter adds a case-insensitive partial match to filter when val is set.
func regexFilter(filter bson.M, field, val string) {
	if val != "" {
		filter[field] = bson.M{"$regex": val, "$options": "i"}
	}
}
