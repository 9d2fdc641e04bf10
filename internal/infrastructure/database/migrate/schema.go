package migrate

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// WordsColumns holds the columns for the "words" table.
	WordsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Size: 36},
		{Name: "word", Type: field.TypeString, Size: 255},
		{Name: "language", Type: field.TypeString, Size: 16, Default: "en"},
		{Name: "translation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "examples", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// WordsTable holds the schema information for the "words" table.
	WordsTable = &schema.Table{
		Name:       "words",
		Columns:    WordsColumns,
		PrimaryKey: []*schema.Column{WordsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "words_word_language",
				Unique:  true,
				Columns: []*schema.Column{WordsColumns[1], WordsColumns[2]},
			},
		},
	}
	// ReviewsColumns holds the columns for the "reviews" table.
	ReviewsColumns = []*schema.Column{
		{Name: "word_id", Type: field.TypeString, Size: 36},
		{Name: "interval", Type: field.TypeInt, Default: 0},
		{Name: "ease_factor", Type: field.TypeFloat64, Default: 2.5},
		{Name: "streak", Type: field.TypeInt, Default: 0},
		{Name: "next_review_at", Type: field.TypeTime},
		{Name: "last_reviewed_at", Type: field.TypeTime, Nullable: true},
		{Name: "history", Type: field.TypeJSON},
	}
	// ReviewsTable holds the schema information for the "reviews" table.
	ReviewsTable = &schema.Table{
		Name:       "reviews",
		Columns:    ReviewsColumns,
		PrimaryKey: []*schema.Column{ReviewsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "reviews_words_review",
				Columns:    []*schema.Column{ReviewsColumns[0]},
				RefColumns: []*schema.Column{WordsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "reviews_next_review_at",
				Unique:  false,
				Columns: []*schema.Column{ReviewsColumns[4]},
			},
		},
	}
	// Tables holds all the tables in the schema, parents first.
	Tables = []*schema.Table{
		WordsTable,
		ReviewsTable,
	}
)

func init() {
	ReviewsTable.ForeignKeys[0].RefTable = WordsTable
}
