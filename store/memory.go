package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"enchanted-shop/model"

	"github.com/hashicorp/go-memdb"
)

const (
	tableProducts  = "products"
	tableCarts     = "carts"
	tableOrders    = "product_orders"
	tableCustomers = "customers"
	tableSequences = "sequences"

	idSequence = "ids"
)

type memCart struct {
	ID int64
}

type memProductOrder struct {
	ID        int64
	CartID    int64
	ProductID int64
	Amount    int
}

type memCustomer struct {
	ID          int64
	Name        string
	Email       string
	PhoneNumber string
	Address     string
	CartID      int64
}

type memSequence struct {
	Name  string
	Value int64
}

func idIndex() *memdb.IndexSchema {
	return &memdb.IndexSchema{Name: "id", Unique: true, Indexer: &memdb.IntFieldIndex{Field: "ID"}}
}

var memSchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tableProducts: {
			Name:    tableProducts,
			Indexes: map[string]*memdb.IndexSchema{"id": idIndex()},
		},
		tableCarts: {
			Name:    tableCarts,
			Indexes: map[string]*memdb.IndexSchema{"id": idIndex()},
		},
		tableOrders: {
			Name: tableOrders,
			Indexes: map[string]*memdb.IndexSchema{
				"id":      idIndex(),
				"cart":    {Name: "cart", Indexer: &memdb.IntFieldIndex{Field: "CartID"}},
				"product": {Name: "product", Indexer: &memdb.IntFieldIndex{Field: "ProductID"}},
			},
		},
		tableCustomers: {
			Name: tableCustomers,
			Indexes: map[string]*memdb.IndexSchema{
				"id":   idIndex(),
				"cart": {Name: "cart", Unique: true, Indexer: &memdb.IntFieldIndex{Field: "CartID"}},
			},
		},
		tableSequences: {
			Name: tableSequences,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {Name: "id", Unique: true, Indexer: &memdb.StringFieldIndex{Field: "Name"}},
			},
		},
	},
}

// MemoryStore is an in-process Store on go-memdb. Every call outside WithTx
// runs in its own memdb transaction; readers see committed data only.
//
// Write transactions are serialized, so a WithTx callback must use the view
// it is handed: writing through the outer store from the same goroutine
// blocks until the unit of work ends.
type MemoryStore struct {
	db *memdb.MemDB

	// set on the view handed to WithTx callbacks
	txn *memdb.Txn
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	db, err := memdb.NewMemDB(memSchema)
	if err != nil {
		// the schema is static; failing here is a programming error
		panic(fmt.Sprintf("memory store schema: %v", err))
	}
	return &MemoryStore{db: db}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if m.txn != nil {
		return fn(m)
	}
	txn := m.db.Txn(true)
	defer txn.Abort()

	if err := fn(&MemoryStore{db: m.db, txn: txn}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (m *MemoryStore) read(fn func(*memdb.Txn) error) error {
	if m.txn != nil {
		return fn(m.txn)
	}
	txn := m.db.Txn(false)
	defer txn.Abort()
	return fn(txn)
}

func (m *MemoryStore) write(fn func(*memdb.Txn) error) error {
	if m.txn != nil {
		return fn(m.txn)
	}
	txn := m.db.Txn(true)
	defer txn.Abort()
	if err := fn(txn); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func nextID(txn *memdb.Txn) (int64, error) {
	raw, err := txn.First(tableSequences, "id", idSequence)
	if err != nil {
		return 0, err
	}
	next := int64(1)
	if raw != nil {
		next = raw.(*memSequence).Value + 1
	}
	if err := txn.Insert(tableSequences, &memSequence{Name: idSequence, Value: next}); err != nil {
		return 0, err
	}
	return next, nil
}

func first(txn *memdb.Txn, table, index string, args ...any) (any, error) {
	raw, err := txn.First(table, index, args...)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrNotFound
	}
	return raw, nil
}

func getProduct(txn *memdb.Txn, id int64) (model.Product, error) {
	raw, err := first(txn, tableProducts, "id", id)
	if err != nil {
		return model.Product{}, err
	}
	return *raw.(*model.Product), nil
}

func (m *MemoryStore) products(keep func(model.Product) bool) ([]model.Product, error) {
	out := []model.Product{}
	err := m.read(func(txn *memdb.Txn) error {
		it, err := txn.Get(tableProducts, "id")
		if err != nil {
			return err
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			if p := *raw.(*model.Product); keep(p) {
				out = append(out, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	return m.products(func(model.Product) bool { return true })
}

func (m *MemoryStore) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := m.read(func(txn *memdb.Txn) (err error) {
		p, err = getProduct(txn, id)
		return err
	})
	return p, err
}

func (m *MemoryStore) FindProducts(ctx context.Context, f model.ProductFilter) ([]model.Product, error) {
	return m.products(f.Matches)
}

func (m *MemoryStore) CreateProduct(ctx context.Context, p model.Product) (model.Product, error) {
	err := m.write(func(txn *memdb.Txn) error {
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		p.ID = id
		row := p
		return txn.Insert(tableProducts, &row)
	})
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, p model.Product) error {
	return m.write(func(txn *memdb.Txn) error {
		if _, err := getProduct(txn, p.ID); err != nil {
			return err
		}
		row := p
		return txn.Insert(tableProducts, &row)
	})
}

// DeleteProduct removes the product and every line item referencing it.
func (m *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	return m.write(func(txn *memdb.Txn) error {
		raw, err := first(txn, tableProducts, "id", id)
		if err != nil {
			return err
		}
		if err := txn.Delete(tableProducts, raw); err != nil {
			return err
		}
		_, err = txn.DeleteAll(tableOrders, "product", id)
		return err
	})
}

func (m *MemoryStore) UpdateStock(ctx context.Context, productID int64, newStock int) error {
	if newStock < 0 {
		return ErrNegativeStock
	}
	return m.write(func(txn *memdb.Txn) error {
		p, err := getProduct(txn, productID)
		if err != nil {
			return err
		}
		p.AvailableQuantity = newStock
		return txn.Insert(tableProducts, &p)
	})
}

func (m *MemoryStore) GetStock(ctx context.Context, productID int64) (int, error) {
	p, err := m.GetProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.AvailableQuantity, nil
}

func (m *MemoryStore) CreateCart(ctx context.Context) (model.Cart, error) {
	var c model.Cart
	err := m.write(func(txn *memdb.Txn) error {
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		c.ID = id
		return txn.Insert(tableCarts, &memCart{ID: id})
	})
	return c, err
}

func (m *MemoryStore) GetCart(ctx context.Context, id int64) (model.Cart, error) {
	err := m.read(func(txn *memdb.Txn) error {
		_, err := first(txn, tableCarts, "id", id)
		return err
	})
	if err != nil {
		return model.Cart{}, err
	}
	return model.Cart{ID: id}, nil
}

// resolve joins a stored line item with its current product row.
func resolve(txn *memdb.Txn, o *memProductOrder) (model.ProductOrder, error) {
	p, err := getProduct(txn, o.ProductID)
	if err != nil {
		return model.ProductOrder{}, err
	}
	return model.ProductOrder{ID: o.ID, CartID: o.CartID, Product: p, Amount: o.Amount}, nil
}

func cartOrders(txn *memdb.Txn, cartID int64) ([]*memProductOrder, error) {
	it, err := txn.Get(tableOrders, "cart", cartID)
	if err != nil {
		return nil, err
	}
	var out []*memProductOrder
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, raw.(*memProductOrder))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) CreateProductOrder(ctx context.Context, o model.ProductOrder) (model.ProductOrder, error) {
	var out model.ProductOrder
	err := m.write(func(txn *memdb.Txn) error {
		if _, err := first(txn, tableCarts, "id", o.CartID); err != nil {
			return err
		}
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		row := &memProductOrder{ID: id, CartID: o.CartID, ProductID: o.Product.ID, Amount: o.Amount}
		if out, err = resolve(txn, row); err != nil {
			return err
		}
		return txn.Insert(tableOrders, row)
	})
	if err != nil {
		return model.ProductOrder{}, err
	}
	return out, nil
}

func (m *MemoryStore) FindProductOrder(ctx context.Context, cartID, productID int64) (model.ProductOrder, error) {
	var out model.ProductOrder
	err := m.read(func(txn *memdb.Txn) error {
		orders, err := cartOrders(txn, cartID)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if o.ProductID == productID {
				out, err = resolve(txn, o)
				return err
			}
		}
		return ErrNotFound
	})
	return out, err
}

func (m *MemoryStore) ListProductOrders(ctx context.Context, cartID int64) ([]model.ProductOrder, error) {
	out := []model.ProductOrder{}
	err := m.read(func(txn *memdb.Txn) error {
		orders, err := cartOrders(txn, cartID)
		if err != nil {
			return err
		}
		for _, o := range orders {
			po, err := resolve(txn, o)
			if err != nil {
				return err
			}
			out = append(out, po)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MemoryStore) UpdateProductOrderAmount(ctx context.Context, id int64, amount int) error {
	return m.write(func(txn *memdb.Txn) error {
		raw, err := first(txn, tableOrders, "id", id)
		if err != nil {
			return err
		}
		row := *raw.(*memProductOrder)
		row.Amount = amount
		return txn.Insert(tableOrders, &row)
	})
}

func (m *MemoryStore) DeleteProductOrder(ctx context.Context, id int64) error {
	return m.write(func(txn *memdb.Txn) error {
		raw, err := first(txn, tableOrders, "id", id)
		if err != nil {
			return err
		}
		return txn.Delete(tableOrders, raw)
	})
}

func toCustomer(c *memCustomer) model.Customer {
	return model.Customer{
		ID:          c.ID,
		Name:        c.Name,
		Email:       c.Email,
		PhoneNumber: c.PhoneNumber,
		Address:     c.Address,
		Cart:        model.Cart{ID: c.CartID},
	}
}

var errCartTaken = errors.New("cart already belongs to a customer")

func (m *MemoryStore) CreateCustomer(ctx context.Context, c model.Customer) (model.Customer, error) {
	var out model.Customer
	err := m.write(func(txn *memdb.Txn) error {
		if _, err := first(txn, tableCarts, "id", c.Cart.ID); err != nil {
			return err
		}
		if owner, err := txn.First(tableCustomers, "cart", c.Cart.ID); err != nil {
			return err
		} else if owner != nil {
			return errCartTaken
		}
		id, err := nextID(txn)
		if err != nil {
			return err
		}
		row := &memCustomer{
			ID:          id,
			Name:        c.Name,
			Email:       c.Email,
			PhoneNumber: c.PhoneNumber,
			Address:     c.Address,
			CartID:      c.Cart.ID,
		}
		out = toCustomer(row)
		return txn.Insert(tableCustomers, row)
	})
	if err != nil {
		return model.Customer{}, err
	}
	return out, nil
}

func (m *MemoryStore) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	out := []model.Customer{}
	err := m.read(func(txn *memdb.Txn) error {
		it, err := txn.Get(tableCustomers, "id")
		if err != nil {
			return err
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			out = append(out, toCustomer(raw.(*memCustomer)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetCustomer(ctx context.Context, id int64) (model.Customer, error) {
	var out model.Customer
	err := m.read(func(txn *memdb.Txn) error {
		raw, err := first(txn, tableCustomers, "id", id)
		if err != nil {
			return err
		}
		out = toCustomer(raw.(*memCustomer))
		return nil
	})
	return out, err
}

func (m *MemoryStore) GetCustomerByCartID(ctx context.Context, cartID int64) (model.Customer, error) {
	var out model.Customer
	err := m.read(func(txn *memdb.Txn) error {
		raw, err := first(txn, tableCustomers, "cart", cartID)
		if err != nil {
			return err
		}
		out = toCustomer(raw.(*memCustomer))
		return nil
	})
	return out, err
}
