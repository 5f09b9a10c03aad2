// Command setup provisions the DynamoDB tables and seeds the catalog with
// an admin account, sample categories and sample products. It is
// idempotent: existing tables, users and catalog entries are left alone.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/example/ecshop/internal/config"
	"github.com/example/ecshop/internal/domain"
	"github.com/example/ecshop/internal/service"
	"github.com/example/ecshop/internal/store"
)

type seedCategory struct {
	name        string
	description string
}

type seedProduct struct {
	name        string
	description string
	price       float64
	category    string
	stock       int
	imageURL    string
}

var seedCategories = []seedCategory{
	{"Electronics", "Electronic devices and gadgets"},
	{"Clothing", "Fashion and apparel"},
	{"Books", "Books and publications"},
	{"Home & Garden", "Home improvement and garden supplies"},
	{"Sports", "Sports equipment and accessories"},
}

var seedProducts = []seedProduct{
	{"Smartphone X", "Latest smartphone with advanced features", 699.99, "Electronics", 50, "https://example.com/smartphone.jpg"},
	{"Wireless Headphones", "High-quality wireless headphones with noise cancellation", 199.99, "Electronics", 100, "https://example.com/headphones.jpg"},
	{"Cotton T-Shirt", "Comfortable cotton t-shirt in various colors", 24.99, "Clothing", 200, "https://example.com/tshirt.jpg"},
	{"Programming Python Book", "Comprehensive guide to Python programming", 49.99, "Books", 75, "https://example.com/python-book.jpg"},
	{"Garden Tool Set", "Complete set of essential garden tools", 89.99, "Home & Garden", 30, "https://example.com/garden-tools.jpg"},
	{"Yoga Mat", "Premium yoga mat for home workouts", 39.99, "Sports", 60, "https://example.com/yoga-mat.jpg"},
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Store.Driver != "dynamodb" {
		logger.Error("setup requires the dynamodb store driver", "driver", cfg.Store.Driver)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.DynamoDB.Region))
	if err != nil {
		logger.Error("failed to load AWS configuration", "error", err)
		os.Exit(1)
	}
	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDB.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDB.Endpoint)
		}
	})

	if err := createTables(ctx, client, cfg.DynamoDB.TablePrefix, logger); err != nil {
		logger.Error("failed to create tables", "error", err)
		os.Exit(1)
	}

	st := store.NewDynamoStore(client, cfg.DynamoDB.TablePrefix)
	if err := seed(ctx, st, logger); err != nil {
		logger.Error("failed to seed data", "error", err)
		os.Exit(1)
	}

	logger.Info("setup completed", "admin_email", "admin@ecommerce.com")
}

// createTables creates one on-demand table per collection, keyed by id.
// Already-existing tables are skipped.
func createTables(ctx context.Context, client *dynamodb.Client, prefix string, logger *slog.Logger) error {
	for _, collection := range store.Collections {
		table := prefix + collection
		_, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
			TableName: aws.String(table),
			AttributeDefinitions: []types.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
			},
			KeySchema: []types.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
			},
			BillingMode: types.BillingModePayPerRequest,
		})
		if err != nil {
			var inUse *types.ResourceInUseException
			if errors.As(err, &inUse) {
				logger.Info("table already exists", "table", table)
				continue
			}
			return err
		}

		waiter := dynamodb.NewTableExistsWaiter(client)
		if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)}, time.Minute); err != nil {
			return err
		}
		logger.Info("table created", "table", table)
	}
	return nil
}

func seed(ctx context.Context, st store.Store, logger *slog.Logger) error {
	users := service.NewUserService(st)
	catalog := service.NewCatalogService(st, st)

	if existing, err := st.GetUserByEmail(ctx, "admin@ecommerce.com"); err != nil {
		return err
	} else if existing == nil {
		admin, err := users.Register(ctx, service.RegisterInput{
			Email:    "admin@ecommerce.com",
			Username: "admin",
			FullName: "System Administrator",
			Password: "admin123",
			Role:     domain.RoleAdmin,
		})
		if err != nil {
			return err
		}
		logger.Info("admin user created", "id", admin.ID)
	} else {
		logger.Info("admin user already exists")
	}

	existing, err := st.ListCategories(ctx)
	if err != nil {
		return err
	}
	categoryIDs := make(map[string]string, len(seedCategories))
	for _, c := range existing {
		categoryIDs[c.Name] = c.ID
	}

	for _, sc := range seedCategories {
		if _, ok := categoryIDs[sc.name]; ok {
			logger.Info("category already exists", "name", sc.name)
			continue
		}
		c, err := catalog.CreateCategory(ctx, service.CategoryInput{Name: sc.name, Description: sc.description})
		if err != nil {
			return err
		}
		categoryIDs[sc.name] = c.ID
		logger.Info("category created", "name", c.Name, "id", c.ID)
	}

	products, err := catalog.ListAllProducts(ctx)
	if err != nil {
		return err
	}
	existingProducts := make(map[string]bool, len(products))
	for _, p := range products {
		existingProducts[p.Name] = true
	}

	for _, sp := range seedProducts {
		if existingProducts[sp.name] {
			logger.Info("product already exists", "name", sp.name)
			continue
		}
		p, err := catalog.CreateProduct(ctx, service.ProductInput{
			Name:          sp.name,
			Description:   sp.description,
			Price:         sp.price,
			CategoryID:    categoryIDs[sp.category],
			StockQuantity: sp.stock,
			ImageURL:      sp.imageURL,
		})
		if err != nil {
			return err
		}
		logger.Info("product created", "name", p.Name, "price", p.Price)
	}

	return nil
}
