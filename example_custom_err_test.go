package graphql_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	graphql "github.com/graph-gophers/graphql-fn"
	"github.com/graph-gophers/graphql-fn/resolvers"
)

type order struct {
	ID      string `json:"id"`
	Carrier string `json:"-"`
}

type shipmentDelayedError struct {
	OrderID    string
	RetryAfter int
}

func (e *shipmentDelayedError) Error() string {
	return fmt.Sprintf("shipment for order %s is delayed", e.OrderID)
}

// Extensions are copied into the "extensions" member of the reported error.
func (e *shipmentDelayedError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":       "SHIPMENT_DELAYED",
		"retryAfter": e.RetryAfter,
	}
}

// Example_customErrors shows a resolver error with extensions. The failing field is nullable,
// so the rest of the order is still returned.
func Example_customErrors() {
	orders := map[string]*order{
		"A-17": {ID: "A-17"},
	}

	engine := graphql.MustParseSchema(`
		type Query {
			order(id: ID!): Order
		}

		type Order {
			id: ID!
			shipment: Shipment
		}

		type Shipment {
			carrier: String!
		}
	`, resolvers.Map{
		"Query": {
			"order": func(_ context.Context, p resolvers.Params) (interface{}, error) {
				return orders[p.Args["id"].(string)], nil
			},
		},
		"Order": {
			"shipment": func(_ context.Context, p resolvers.Params) (interface{}, error) {
				o := p.Parent.(*order)
				if o.Carrier == "" {
					return nil, &shipmentDelayedError{OrderID: o.ID, RetryAfter: 30}
				}
				return map[string]interface{}{"carrier": o.Carrier}, nil
			},
		},
	})

	query := `{
  order(id: "A-17") {
    id
    shipment {
      carrier
    }
  }
}`
	res := engine.Handle(context.Background(), query, nil, "")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		panic(err)
	}

	// Output:
	// {
	//   "data": {
	//     "order": {
	//       "id": "A-17",
	//       "shipment": null
	//     }
	//   },
	//   "errors": [
	//     {
	//       "message": "shipment for order A-17 is delayed",
	//       "locations": [
	//         {
	//           "line": 4,
	//           "column": 5
	//         }
	//       ],
	//       "path": [
	//         "order",
	//         "shipment"
	//       ],
	//       "extensions": {
	//         "code": "SHIPMENT_DELAYED",
	//         "retryAfter": 30
	//       }
	//     }
	//   ]
	// }
}
